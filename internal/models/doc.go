// Package models defines the core domain models for Inkwell.
//
// # Models
//
//   - User: a registered author, identified by a unique username
//   - Group: a named community posts can be filed under, addressed by slug
//   - Post: a piece of text written by exactly one User, optionally in a Group
//
// # Design Principles
//
// 1. **Stable ownership**: a Post's AuthorID and CreatedAt are set once by the
// store and never change afterwards
// 2. **Optional grouping**: GroupID is a nullable reference; removing a Group
// clears it on its posts instead of removing them
// 3. **Avoid circular references**: relationships are stored as IDs; Author and
// Group pointers are hydrated by the store for display only
package models
