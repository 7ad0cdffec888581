// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package query validates collection queries and evaluates them against
// in-memory entities.
//
// The supported filter language is intentionally small: equality, the
// comparison operators $gt, $gte, $lt, $lte, $ne, the set operators $in and
// $nin, and $or over sub-filters. Several keys in one filter are combined
// with AND. Field paths are dotted payload paths; "_id" addresses the
// entity id.
package query
