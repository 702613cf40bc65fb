// Package model holds the domain entities persisted by the repository layer.
//
// Entities are plain records: no persistence logic lives here. Column
// constraints are declared by the entity configurations in the database
// package and enforced before every write.
package model

// Usuario is a user of the store.
//
// Id is assigned by the database on insert and never changes afterwards.
type Usuario struct {
	Id    int64  `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
}
