package schema

type TabletColumn struct {
	Name string
	Type FieldType

	Nullable bool

	// key columns form the leading prefix of the schema and define the
	// sort order used by ordered block lookup
	IsKey bool
}
