// Package models defines the core domain models for hizbtrack.
//
// # Document
//
// The whole state of a reading group is one GroupData document:
//   - GroupData: the group name, its default capacity and its members
//   - Member: one reader, with a current total and a monthly history
//   - History: month-keyed progress, serialized as a sorted MonthlyProgress list
//
// The document is always read and written as a unit; there is no per-member
// persistence.
//
// # Units
//
// Progress is counted in ahzab (60 per full reading). Capacity is stored per
// member so the aggregate functions never assume a global constant.
//
// # JSON shape
//
// Field names follow the blob written by the original browser dashboard
// (totalAhzab, completedAhzab, monthlyProgress, ...) so an exported local
// storage value can be loaded as-is.
package models
