package models

import "time"

// Run identifies one export of a processed input file.
type Run struct {
	ID        string
	Source    string
	Dialect   Dialect
	Rows      int
	CreatedAt time.Time
}
