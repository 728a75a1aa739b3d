package domain

const DefaultLabelColor = "#ffffff"

type Label struct {
	ID    int64
	Name  string
	Color string
}
