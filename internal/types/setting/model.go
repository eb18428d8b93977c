package setting

// Setting is one key/value pair of site configuration. Values are stored as
// JSON text so presentation blobs and typed settings share one table.
type Setting struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}
