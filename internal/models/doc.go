// Package models defines the core domain models for Splitledger.
//
// # Models
//
//   - User: Registered account; members of groups are users
//   - Group: A set of users sharing expenses
//   - Expense: Money one member paid on behalf of the group, with per-member shares
//   - ExpenseShare: One member's portion of an expense
//   - Payment: A direct transfer between two members, e.g. settling up
//
// # Design Principles
//
// 1. **Derived balances**: Balances are never stored; they are recomputed from
// expenses and payments on every query (see package calculator)
// 2. **Exact money**: All amounts are decimal.Decimal, stored as TEXT
// 3. **Avoid circular references**: Use ID strings instead of pointers for relationships
package models
