package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/dot5enko/simple-olap-db/compression"
	"github.com/dot5enko/simple-olap-db/filter"
	olapio "github.com/dot5enko/simple-olap-db/io"
	"github.com/dot5enko/simple-olap-db/mempool"
	"github.com/dot5enko/simple-olap-db/row"
	"github.com/dot5enko/simple-olap-db/rowblock"
	"github.com/dot5enko/simple-olap-db/schema"
	"github.com/dot5enko/simple-olap-db/segment"
)

const demoRows = 512

func fillDemoBlock(s *schema.TabletSchema, pool *mempool.Pool) *rowblock.RowBlock {

	block := rowblock.New(s, pool)

	initErr := block.Init(rowblock.Info{
		Capacity:      demoRows,
		NullSupported: true,
	})
	if initErr != nil {
		panic(initErr)
	}

	writer, cursorErr := row.NewOwnedCursor(s, true)
	if cursorErr != nil {
		panic(cursorErr)
	}
	writer.BindArena(block.Arena())

	key := uint64(0)
	for i := 0; i < demoRows; i++ {

		key += uint64(rand.Intn(3)) // duplicates on purpose
		writer.SetUint(0, key)
		writer.SetFloat(1, rand.Float64()*100)

		if i%7 == 0 {
			writer.SetNull(2)
		} else {
			tagErr := writer.SetVarchar(2, fmt.Appendf(nil, "tag-%d", key%10))
			if tagErr != nil {
				panic(tagErr)
			}
		}

		block.SetRow(i, writer)
	}

	if err := block.Finalize(demoRows); err != nil {
		panic(err)
	}

	return block
}

func main() {

	tablet := &schema.TabletSchema{
		Name: "health_checks",
		Columns: []schema.TabletColumn{
			{Name: "created_at", Type: schema.Uint64FieldType, IsKey: true},
			{Name: "value", Type: schema.Float64FieldType, Nullable: true},
			{Name: "tag", Type: schema.VarcharFieldType, Nullable: true},
		},
	}

	if err := tablet.Validate(); err != nil {
		panic(err)
	}

	pool := mempool.New(64, mempool.DefaultChunkSize)
	block := fillDemoBlock(tablet, pool)

	color.Cyan("filled block, dumping head")
	olapio.DumpBlock(block, 5)
	olapio.DumpBlockInfo(block)

	// ordered lookup over the key column
	keyCursor, err := row.NewOwnedCursor(&schema.TabletSchema{
		Name:    tablet.Name,
		Columns: tablet.Columns[:1],
	}, true)
	if err != nil {
		panic(err)
	}

	keyCursor.SetUint(0, 100)
	first, _ := block.FindRow(keyCursor, false)
	last, _ := block.FindRow(keyCursor, true)
	color.Green("key 100 occupies rows [%d, %d)", first, last)

	// segment round trip
	if err = os.MkdirAll("./storage", 0o755); err != nil {
		panic(err)
	}
	path := filepath.Join("./storage", "demo.seg")

	writer := segment.NewWriter(path, tablet, compression.Lz4)
	if err = writer.Write([]*rowblock.RowBlock{block}); err != nil {
		panic(err)
	}
	log.Printf("segment written @ %s", path)

	reader := segment.NewReader(path, tablet, pool)
	if err = reader.Open(); err != nil {
		panic(err)
	}
	defer reader.Close()

	// prune on per-block key bounds before paying for a decode
	keyCond := filter.Range(0, 50, 150)
	for i := 0; i < reader.BlockCount(); i++ {
		entry := reader.Entry(i)
		match, matchErr := filter.MatchBounds(keyCond, &entry.Bounds)
		if matchErr != nil {
			panic(matchErr)
		}
		log.Printf("block %d key bounds [%v, %v] -> %d rows, match=%d",
			i, entry.Bounds.Min, entry.Bounds.Max, entry.Rows, match)
	}

	blocks, readErr := reader.ReadAll()
	if readErr != nil {
		panic(readErr)
	}
	log.Printf("read %d blocks back, pool used %d bytes", len(blocks), pool.Tracker().Used())

	// predicate pushdown on the decoded block
	decoded := blocks[0]
	st, filterErr := filter.Apply(decoded, []filter.Condition{
		keyCond,
		filter.Gt(1, 25),
	})
	if filterErr != nil {
		panic(filterErr)
	}

	color.Yellow("filtered block: status=%s remaining=%d", st.String(), decoded.Remaining())
	olapio.DumpBlock(decoded, 5)
}
