// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the console client runtime.
//
// It runs the terminal UI next to the background sync job of the engine and
// ties both to a single process lifecycle: quitting the console or receiving
// a termination signal stops the job and closes the engine.
package client
