// Package models defines the core domain records for GameSwap.
//
// The item's owner reference is the single source of truth for who holds
// what. A Swap row is a proposal and audit trail, never an ownership
// register: settlement is the only operation allowed to move an item
// between owners.
//
// All records are plain data carriers constructed at the storage boundary;
// nothing downstream touches raw rows.
package models
