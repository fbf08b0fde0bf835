// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// StoredFile describes an object uploaded to blob storage.
type StoredFile struct {
	Bucket      string `json:"bucket"`
	Path        string `json:"path"`
	PublicURL   string `json:"public_url"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
}
