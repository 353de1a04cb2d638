package models

type Vehicle struct {
	ID      int64
	LocalID string
	OrderID int64
	Plate   string
	Model   string
	Color   string
	Audit
}
