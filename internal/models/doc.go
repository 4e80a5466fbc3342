// Package models defines the core domain models for the receipt backend.
//
// # Models
//
//   - User: a registered account, identified by a unique email
//   - Receipt: an aggregate record of a sale (customer, items, amounts, payment)
//   - Item: a single line entry owned by exactly one Receipt
//
// # Design Principles
//
//  1. Receipts exclusively own their items: an item cannot outlive its
//     receipt and cannot be shared between receipts (cascade delete).
//  2. The stored total is caller-supplied and intentionally never
//     reconciled against the item sum; the renderer prints both.
//  3. Avoid circular references: items carry the owning receipt's ID
//     instead of a pointer back to the receipt.
package models
