// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the portal runtime process.
//
// It wires the Local Mirror, the remote store backend, the services and the
// local HTTP API into a single lifecycle: initialize the session context,
// serve until cancelled, then tear everything down.
package client
