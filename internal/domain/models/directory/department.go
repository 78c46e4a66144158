package directory

// Department is an organizational unit sourced from the HR system. Rows are
// read-only from the portal's perspective; an external sync job owns them.
type Department struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
