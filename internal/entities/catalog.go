package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Publisher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   *string   `gorm:"type:text" json:"address"`
	City      *string   `gorm:"size:100" json:"city"`
	Country   *string   `gorm:"size:100" json:"country"`
	Website   *string   `gorm:"size:255" json:"website"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Publisher) TableName() string {
	return "publishers"
}

type Author struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"size:100;not null" json:"firstName"`
	LastName    string     `gorm:"size:100;not null" json:"lastName"`
	BirthDate   *time.Time `gorm:"type:date" json:"birthDate"`
	Biography   *string    `gorm:"type:text" json:"biography"`
	Nationality *string    `gorm:"size:100" json:"nationality"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Author) TableName() string {
	return "authors"
}

// FullName joins first and last name.
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}

type Book struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	Title           string              `gorm:"size:255;not null" json:"title"`
	ISBN            *string             `gorm:"column:isbn;uniqueIndex;size:13" json:"isbn"`
	PublicationDate *time.Time          `gorm:"type:date" json:"publicationDate"`
	Price           decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"price"`
	Description     *string             `gorm:"type:text" json:"description"`
	PageCount       *int                `json:"pageCount"`
	Language        *string             `gorm:"size:50" json:"language"`
	PublisherID     *uint               `gorm:"index" json:"publisherId"`
	Publisher       *Publisher          `gorm:"foreignKey:PublisherID" json:"-"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func (Book) TableName() string {
	return "books"
}

// PriceText returns the price with exactly two decimals, or nil.
func (b Book) PriceText() *string {
	if !b.Price.Valid {
		return nil
	}
	s := b.Price.Decimal.StringFixed(2)
	return &s
}

func (b Book) MarshalJSON() ([]byte, error) {
	type row Book
	return json.Marshal(struct {
		row
		Price *string `json:"price"`
	}{row: row(b), Price: b.PriceText()})
}

// BookAuthor links a book to one of its authors. The pair is the identity.
type BookAuthor struct {
	BookID    uint      `gorm:"primaryKey;autoIncrement:false" json:"bookId"`
	AuthorID  uint      `gorm:"primaryKey;autoIncrement:false;index" json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	Book      *Book     `gorm:"foreignKey:BookID" json:"-"`
	Author    *Author   `gorm:"foreignKey:AuthorID" json:"-"`
}

func (BookAuthor) TableName() string {
	return "book_authors"
}

// BookCategory links a book to one of its categories. The pair is the identity.
type BookCategory struct {
	BookID     uint      `gorm:"primaryKey;autoIncrement:false" json:"bookId"`
	CategoryID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
	Book       *Book     `gorm:"foreignKey:BookID" json:"-"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (BookCategory) TableName() string {
	return "book_categories"
}
