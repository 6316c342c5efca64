package domain

import "time"

// Category описывает категорию товаров.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

func NewCategory(name, description string) *Category {
	return &Category{
		Name:        name,
		Description: description,
	}
}

// Subcategory описывает подкатегорию. Связь с родительской категорией
// хранится явной ссылкой CategoryID.
type Subcategory struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	CreatedAt   time.Time
}

func NewSubcategory(categoryID, name, description string) *Subcategory {
	return &Subcategory{
		CategoryID:  categoryID,
		Name:        name,
		Description: description,
	}
}
