// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Catalog records share a small capability set used by the resilient
// repository: Identity returns the record id, WithIdentity returns a copy
// carrying a new id, and Merge applies a patch shallowly. Nil patch fields
// are left unchanged; list fields are replaced wholesale.

// Driver is a downloadable device driver.
type Driver struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name"`
	Manufacturer string     `json:"manufacturer,omitempty"`
	Version      string     `json:"version,omitempty"`
	OS           []string   `json:"os,omitempty"`
	Category     string     `json:"category,omitempty"`
	Description  string     `json:"description,omitempty"`
	DownloadURL  string     `json:"download_url,omitempty"`
	FileSize     string     `json:"file_size,omitempty"`
	ReleaseDate  string     `json:"release_date,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

type DriverPatch struct {
	Name         *string   `json:"name,omitempty"`
	Manufacturer *string   `json:"manufacturer,omitempty"`
	Version      *string   `json:"version,omitempty"`
	OS           *[]string `json:"os,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Description  *string   `json:"description,omitempty"`
	DownloadURL  *string   `json:"download_url,omitempty"`
	FileSize     *string   `json:"file_size,omitempty"`
	ReleaseDate  *string   `json:"release_date,omitempty"`
}

func (d Driver) Identity() string { return d.ID }

func (d Driver) WithIdentity(id string) Driver {
	d.ID = id
	return d
}

func (d Driver) Merge(p DriverPatch) Driver {
	apply(&d.Name, p.Name)
	apply(&d.Manufacturer, p.Manufacturer)
	apply(&d.Version, p.Version)
	apply(&d.OS, p.OS)
	apply(&d.Category, p.Category)
	apply(&d.Description, p.Description)
	apply(&d.DownloadURL, p.DownloadURL)
	apply(&d.FileSize, p.FileSize)
	apply(&d.ReleaseDate, p.ReleaseDate)
	return d
}

// Guide is a written troubleshooting or how-to article.
type Guide struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description,omitempty"`
	Content     string     `json:"content,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Author      string     `json:"author,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type GuidePatch struct {
	Title       *string   `json:"title,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Description *string   `json:"description,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Author      *string   `json:"author,omitempty"`
}

func (g Guide) Identity() string { return g.ID }

func (g Guide) WithIdentity(id string) Guide {
	g.ID = id
	return g
}

func (g Guide) Merge(p GuidePatch) Guide {
	apply(&g.Title, p.Title)
	apply(&g.Category, p.Category)
	apply(&g.Description, p.Description)
	apply(&g.Content, p.Content)
	apply(&g.Tags, p.Tags)
	apply(&g.Author, p.Author)
	return g
}

// GuideStep is one illustrated step of a disassembly guide.
type GuideStep struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// DisassemblyGuide walks through taking a device apart.
type DisassemblyGuide struct {
	ID            string      `json:"id,omitempty"`
	Title         string      `json:"title"`
	DeviceModel   string      `json:"device_model,omitempty"`
	Manufacturer  string      `json:"manufacturer,omitempty"`
	Difficulty    string      `json:"difficulty,omitempty"`
	EstimatedTime string      `json:"estimated_time,omitempty"`
	Tools         []string    `json:"tools,omitempty"`
	Steps         []GuideStep `json:"steps,omitempty"`
	Warnings      []string    `json:"warnings,omitempty"`
	CreatedAt     *time.Time  `json:"created_at,omitempty"`
}

type DisassemblyGuidePatch struct {
	Title         *string      `json:"title,omitempty"`
	DeviceModel   *string      `json:"device_model,omitempty"`
	Manufacturer  *string      `json:"manufacturer,omitempty"`
	Difficulty    *string      `json:"difficulty,omitempty"`
	EstimatedTime *string      `json:"estimated_time,omitempty"`
	Tools         *[]string    `json:"tools,omitempty"`
	Steps         *[]GuideStep `json:"steps,omitempty"`
	Warnings      *[]string    `json:"warnings,omitempty"`
}

func (g DisassemblyGuide) Identity() string { return g.ID }

func (g DisassemblyGuide) WithIdentity(id string) DisassemblyGuide {
	g.ID = id
	return g
}

func (g DisassemblyGuide) Merge(p DisassemblyGuidePatch) DisassemblyGuide {
	apply(&g.Title, p.Title)
	apply(&g.DeviceModel, p.DeviceModel)
	apply(&g.Manufacturer, p.Manufacturer)
	apply(&g.Difficulty, p.Difficulty)
	apply(&g.EstimatedTime, p.EstimatedTime)
	apply(&g.Tools, p.Tools)
	apply(&g.Steps, p.Steps)
	apply(&g.Warnings, p.Warnings)
	return g
}

// Document is a downloadable manual, datasheet or form.
type Document struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description,omitempty"`
	FileURL     string     `json:"file_url,omitempty"`
	FileType    string     `json:"file_type,omitempty"`
	FileSize    string     `json:"file_size,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type DocumentPatch struct {
	Title       *string `json:"title,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	FileURL     *string `json:"file_url,omitempty"`
	FileType    *string `json:"file_type,omitempty"`
	FileSize    *string `json:"file_size,omitempty"`
}

func (d Document) Identity() string { return d.ID }

func (d Document) WithIdentity(id string) Document {
	d.ID = id
	return d
}

func (d Document) Merge(p DocumentPatch) Document {
	apply(&d.Title, p.Title)
	apply(&d.Category, p.Category)
	apply(&d.Description, p.Description)
	apply(&d.FileURL, p.FileURL)
	apply(&d.FileType, p.FileType)
	apply(&d.FileSize, p.FileSize)
	return d
}

// DriverLink points at a driver package bundled for a Windows release.
type DriverLink struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	URL     string `json:"url,omitempty"`
}

// WindowsVersion is a Windows release with its installation media and
// recommended drivers.
type WindowsVersion struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Version     string       `json:"version,omitempty"`
	Build       string       `json:"build,omitempty"`
	ReleaseDate string       `json:"release_date,omitempty"`
	Description string       `json:"description,omitempty"`
	DownloadURL string       `json:"download_url,omitempty"`
	Drivers     []DriverLink `json:"drivers,omitempty"`
	CreatedAt   *time.Time   `json:"created_at,omitempty"`
}

type WindowsVersionPatch struct {
	Name        *string       `json:"name,omitempty"`
	Version     *string       `json:"version,omitempty"`
	Build       *string       `json:"build,omitempty"`
	ReleaseDate *string       `json:"release_date,omitempty"`
	Description *string       `json:"description,omitempty"`
	DownloadURL *string       `json:"download_url,omitempty"`
	Drivers     *[]DriverLink `json:"drivers,omitempty"`
}

func (w WindowsVersion) Identity() string { return w.ID }

func (w WindowsVersion) WithIdentity(id string) WindowsVersion {
	w.ID = id
	return w
}

func (w WindowsVersion) Merge(p WindowsVersionPatch) WindowsVersion {
	apply(&w.Name, p.Name)
	apply(&w.Version, p.Version)
	apply(&w.Build, p.Build)
	apply(&w.ReleaseDate, p.ReleaseDate)
	apply(&w.Description, p.Description)
	apply(&w.DownloadURL, p.DownloadURL)
	apply(&w.Drivers, p.Drivers)
	return w
}

func apply[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
