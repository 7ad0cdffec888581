// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models contains the domain and wire types shared by the sync
// engine, the remote adapter and the reference server: entities and cache
// entries, sync queue items, batch and pull results, queries, file transfer
// metadata and the store modes.
package models
