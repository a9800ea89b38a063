package realtime

import (
	"fmt"
	"time"
)

const (
	CollectionEmployees    = "employees"
	CollectionTransactions = "transactions"

	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// Change notifies subscribers that a record in a collection changed. It
// carries ids only; subscribers re-query for a fresh snapshot.
type Change struct {
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	CompanyID  string    `json:"company_id"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (c Change) Topic() string {
	return Topic(c.CompanyID, c.Collection)
}

// Topic is company:{id}:{collection}.
func Topic(companyID, collection string) string {
	return fmt.Sprintf("company:%s:%s", companyID, collection)
}

func ValidCollection(name string) bool {
	return name == CollectionEmployees || name == CollectionTransactions
}
