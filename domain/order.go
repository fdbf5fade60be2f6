package domain

type Order struct {
	ID         int64  `db:"id" json:"id"`
	CustomerID int64  `db:"customer_id" json:"customer_id"`
	Reference  string `db:"reference" json:"reference"`
	OrderDate  string `db:"order_date" json:"order_date"`
}

type OrderItem struct {
	ID       int64 `db:"id" json:"id"`
	OrderID  int64 `db:"order_id" json:"order_id"`
	TabletID int64 `db:"tablet_id" json:"tablet_id"`
	Quantity int64 `db:"quantity" json:"quantity"`
}
