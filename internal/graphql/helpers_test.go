package graphql

import (
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/categories"
	"github.com/mrlokans/catalog/internal/database/publishers"
)

func bookInput(title string) books.Input {
	return books.Input{Title: title}
}

func categoryInput(name string) categories.Input {
	return categories.Input{Name: name}
}

func publisherInput(name string) publishers.Input {
	return publishers.Input{Name: name}
}
