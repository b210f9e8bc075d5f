package graphql

import (
	"strconv"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/mrlokans/catalog/internal/database/authors"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/categories"
	"github.com/mrlokans/catalog/internal/database/publishers"
	"github.com/mrlokans/catalog/internal/optional"
)

// Update inputs use the Null* wrappers so an omitted field stays
// untouched while an explicit null clears the column. List fields have
// no such wrapper; a null list is treated as omitted.

type createBookInput struct {
	Title           string
	ISBN            *string
	PublicationDate *string
	Price           *string
	Description     *string
	PageCount       *int32
	Language        *string
	PublisherID     *int32
	AuthorIDs       *[]int32
	CategoryIDs     *[]int32
}

type updateBookInput struct {
	Title           graphql.NullString
	ISBN            graphql.NullString
	PublicationDate graphql.NullString
	Price           graphql.NullString
	Description     graphql.NullString
	PageCount       graphql.NullInt
	Language        graphql.NullString
	PublisherID     graphql.NullInt
	AuthorIDs       *[]int32
	CategoryIDs     *[]int32
}

type createAuthorInput struct {
	FirstName   string
	LastName    string
	BirthDate   *string
	Biography   *string
	Nationality *string
}

type updateAuthorInput struct {
	FirstName   graphql.NullString
	LastName    graphql.NullString
	BirthDate   graphql.NullString
	Biography   graphql.NullString
	Nationality graphql.NullString
}

type createPublisherInput struct {
	Name    string
	Address *string
	City    *string
	Country *string
	Website *string
}

type updatePublisherInput struct {
	Name    graphql.NullString
	Address graphql.NullString
	City    graphql.NullString
	Country graphql.NullString
	Website graphql.NullString
}

type createCategoryInput struct {
	Name        string
	Description *string
}

type updateCategoryInput struct {
	Name        graphql.NullString
	Description graphql.NullString
}

func parseID(id graphql.ID) (uint, error) {
	v, err := strconv.ParseUint(string(id), 10, 32)
	if err != nil || v == 0 {
		return 0, badInput("invalid id: " + string(id))
	}
	return uint(v), nil
}

func parseIDs(field string, ids []int32) ([]uint, error) {
	out := make([]uint, len(ids))
	for i, id := range ids {
		if id <= 0 {
			return nil, &Error{
				Message: "invalid input",
				Code:    CodeBadUserInput,
				Fields:  map[string]string{field: "ids must be positive integers"},
			}
		}
		out[i] = uint(id)
	}
	return out, nil
}

// publisherRef maps a publisherId argument onto the stored reference.
// Zero means no publisher.
func publisherRef(id int32) (*uint, error) {
	switch {
	case id < 0:
		return nil, badInput("publisherId must not be negative")
	case id == 0:
		return nil, nil
	}
	ref := uint(id)
	return &ref, nil
}

func nullString(n graphql.NullString) optional.Field[string] {
	if !n.Set {
		return optional.Field[string]{}
	}
	return optional.FromPtr(n.Value)
}

func nullPrice(n graphql.NullString) optional.Field[books.Price] {
	if !n.Set {
		return optional.Field[books.Price]{}
	}
	return optional.FromPtr((*books.Price)(n.Value))
}

func nullInt(n graphql.NullInt) optional.Field[int] {
	if !n.Set {
		return optional.Field[int]{}
	}
	if n.Value == nil {
		return optional.Null[int]()
	}
	return optional.Of(int(*n.Value))
}

func (in createBookInput) toInput() (books.Input, error) {
	out := books.Input{
		Title:           in.Title,
		ISBN:            in.ISBN,
		PublicationDate: in.PublicationDate,
		Price:           (*books.Price)(in.Price),
		Description:     in.Description,
		Language:        in.Language,
	}

	var err error
	if in.PageCount != nil {
		n := int(*in.PageCount)
		out.PageCount = &n
	}
	if in.PublisherID != nil {
		if out.PublisherID, err = publisherRef(*in.PublisherID); err != nil {
			return out, err
		}
	}
	if in.AuthorIDs != nil {
		if out.AuthorIDs, err = parseIDs("authorIds", *in.AuthorIDs); err != nil {
			return out, err
		}
	}
	if in.CategoryIDs != nil {
		if out.CategoryIDs, err = parseIDs("categoryIds", *in.CategoryIDs); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (in updateBookInput) toPatch() (books.Patch, error) {
	out := books.Patch{
		Title:           nullString(in.Title),
		ISBN:            nullString(in.ISBN),
		PublicationDate: nullString(in.PublicationDate),
		Price:           nullPrice(in.Price),
		Description:     nullString(in.Description),
		PageCount:       nullInt(in.PageCount),
		Language:        nullString(in.Language),
	}

	if in.PublisherID.Set {
		out.PublisherID = optional.Null[uint]()
		if in.PublisherID.Value != nil {
			ref, err := publisherRef(*in.PublisherID.Value)
			if err != nil {
				return out, err
			}
			out.PublisherID = optional.FromPtr(ref)
		}
	}

	if in.AuthorIDs != nil {
		ids, err := parseIDs("authorIds", *in.AuthorIDs)
		if err != nil {
			return out, err
		}
		out.AuthorIDs = optional.Of(ids)
	}
	if in.CategoryIDs != nil {
		ids, err := parseIDs("categoryIds", *in.CategoryIDs)
		if err != nil {
			return out, err
		}
		out.CategoryIDs = optional.Of(ids)
	}
	return out, nil
}

func (in createAuthorInput) toInput() authors.Input {
	return authors.Input{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		BirthDate:   in.BirthDate,
		Biography:   in.Biography,
		Nationality: in.Nationality,
	}
}

func (in updateAuthorInput) toPatch() authors.Patch {
	return authors.Patch{
		FirstName:   nullString(in.FirstName),
		LastName:    nullString(in.LastName),
		BirthDate:   nullString(in.BirthDate),
		Biography:   nullString(in.Biography),
		Nationality: nullString(in.Nationality),
	}
}

func (in createPublisherInput) toInput() publishers.Input {
	return publishers.Input{
		Name:    in.Name,
		Address: in.Address,
		City:    in.City,
		Country: in.Country,
		Website: in.Website,
	}
}

func (in updatePublisherInput) toPatch() publishers.Patch {
	return publishers.Patch{
		Name:    nullString(in.Name),
		Address: nullString(in.Address),
		City:    nullString(in.City),
		Country: nullString(in.Country),
		Website: nullString(in.Website),
	}
}

func (in createCategoryInput) toInput() categories.Input {
	return categories.Input{
		Name:        in.Name,
		Description: in.Description,
	}
}

func (in updateCategoryInput) toPatch() categories.Patch {
	return categories.Patch{
		Name:        nullString(in.Name),
		Description: nullString(in.Description),
	}
}
