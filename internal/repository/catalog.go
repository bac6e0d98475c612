package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/quizbox/quizbox-bot/internal/domain/entities"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrEmptyCatalog = errors.New("catalog contains no items")
)

// CatalogRepository provides read-only access to the item catalog. The
// catalog ships as a JSON file; ingestion (PDF extraction etc.) happens
// upstream and is not this repo's concern.
type CatalogRepository struct {
	items []entities.Item
	byID  map[string]entities.Item
}

// NewCatalogRepository loads the catalog from a JSON file.
func NewCatalogRepository(path string) (*CatalogRepository, error) {
	items, err := readCatalog(path)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]entities.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	return &CatalogRepository{items: items, byID: byID}, nil
}

// All returns every catalog item in file order.
func (r *CatalogRepository) All() []entities.Item {
	return r.items
}

// GetByID retrieves a single item.
func (r *CatalogRepository) GetByID(id string) (entities.Item, error) {
	item, ok := r.byID[id]
	if !ok {
		return entities.Item{}, ErrItemNotFound
	}
	return item, nil
}

// Topics returns the distinct topics in encounter order.
func (r *CatalogRepository) Topics() []string {
	var topics []string
	seen := make(map[string]bool)
	for _, item := range r.items {
		if !seen[item.Topic] {
			seen[item.Topic] = true
			topics = append(topics, item.Topic)
		}
	}
	return topics
}

func readCatalog(path string) ([]entities.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Items []entities.Item `json:"items"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
	}

	if len(wrapper.Items) == 0 {
		return nil, ErrEmptyCatalog
	}

	for i, item := range wrapper.Items {
		if item.ID == "" {
			return nil, fmt.Errorf("catalog item %d has no id", i)
		}
	}

	return wrapper.Items, nil
}
