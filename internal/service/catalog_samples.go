package service

import "github.com/MKhiriev/go-tech-support/models"

// Sample ids are fixed so that repeated seeding recognizes existing rows.

var sampleDrivers = []models.Driver{
	{
		ID:           "5d1c3e0a-7b7f-4c1e-9a51-000000000101",
		Name:         "Realtek High Definition Audio",
		Manufacturer: "Realtek",
		Version:      "6.0.9549.1",
		OS:           []string{"Windows 10", "Windows 11"},
		Category:     "audio",
		Description:  "Audio driver for Realtek HD codecs found on most desktop boards.",
		DownloadURL:  "https://www.realtek.com/en/downloads",
		FileSize:     "450 MB",
		ReleaseDate:  "2023-08-15",
	},
	{
		ID:           "5d1c3e0a-7b7f-4c1e-9a51-000000000102",
		Name:         "Intel Wireless Wi-Fi",
		Manufacturer: "Intel",
		Version:      "23.20.0",
		OS:           []string{"Windows 10", "Windows 11"},
		Category:     "network",
		Description:  "Wi-Fi driver for Intel wireless adapters.",
		DownloadURL:  "https://www.intel.com/content/www/us/en/download-center/home.html",
		FileSize:     "38 MB",
		ReleaseDate:  "2023-11-07",
	},
	{
		ID:           "5d1c3e0a-7b7f-4c1e-9a51-000000000103",
		Name:         "NVIDIA GeForce Game Ready",
		Manufacturer: "NVIDIA",
		Version:      "546.33",
		OS:           []string{"Windows 10", "Windows 11"},
		Category:     "video",
		Description:  "Graphics driver for GeForce cards.",
		DownloadURL:  "https://www.nvidia.com/Download/index.aspx",
		FileSize:     "640 MB",
		ReleaseDate:  "2023-12-12",
	},
}

var sampleGuides = []models.Guide{
	{
		ID:          "5d1c3e0a-7b7f-4c1e-9a51-000000000201",
		Title:       "Fixing a computer that will not boot",
		Category:    "troubleshooting",
		Description: "Step-by-step diagnosis of boot failures.",
		Content:     "Check power and cables, listen for POST beeps, reseat memory, then try booting from recovery media.",
		Tags:        []string{"boot", "hardware", "bios"},
		Author:      "Support team",
	},
	{
		ID:          "5d1c3e0a-7b7f-4c1e-9a51-000000000202",
		Title:       "Cleaning up a slow Windows installation",
		Category:    "optimization",
		Description: "Startup programs, disk cleanup and driver updates.",
		Content:     "Disable unneeded startup programs, run Disk Cleanup, update drivers and check the disk for errors.",
		Tags:        []string{"windows", "performance"},
		Author:      "Support team",
	},
}

var sampleDisassemblyGuides = []models.DisassemblyGuide{
	{
		ID:            "5d1c3e0a-7b7f-4c1e-9a51-000000000301",
		Title:         "Replacing a laptop keyboard",
		DeviceModel:   "ThinkPad T480",
		Manufacturer:  "Lenovo",
		Difficulty:    "medium",
		EstimatedTime: "45 minutes",
		Tools:         []string{"Phillips #0 screwdriver", "plastic spudger"},
		Steps: []models.GuideStep{
			{Title: "Remove the battery", Description: "Disable the built-in battery in BIOS and remove the external one."},
			{Title: "Remove the bottom cover", Description: "Loosen the captive screws and unclip the cover."},
			{Title: "Release the keyboard", Description: "Remove the keyboard screws and lift it from the palm rest side."},
		},
		Warnings: []string{"Disconnect all power before opening the case."},
	},
}

var sampleDocuments = []models.Document{
	{
		ID:          "5d1c3e0a-7b7f-4c1e-9a51-000000000401",
		Title:       "Service request form",
		Category:    "forms",
		Description: "Form to fill in when handing a device over for repair.",
		FileURL:     "https://example.com/docs/service-request.pdf",
		FileType:    "pdf",
		FileSize:    "120 KB",
	},
	{
		ID:          "5d1c3e0a-7b7f-4c1e-9a51-000000000402",
		Title:       "Workstation setup checklist",
		Category:    "manuals",
		Description: "Checklist for preparing a new employee workstation.",
		FileURL:     "https://example.com/docs/workstation-checklist.pdf",
		FileType:    "pdf",
		FileSize:    "85 KB",
	},
}

var sampleWindowsVersions = []models.WindowsVersion{
	{
		ID:          "5d1c3e0a-7b7f-4c1e-9a51-000000000501",
		Name:        "Windows 11",
		Version:     "23H2",
		Build:       "22631",
		ReleaseDate: "2023-10-31",
		Description: "Current Windows 11 feature update.",
		DownloadURL: "https://www.microsoft.com/software-download/windows11",
		Drivers: []models.DriverLink{
			{Name: "Intel Chipset", Version: "10.1.19444", URL: "https://www.intel.com/content/www/us/en/download-center/home.html"},
		},
	},
	{
		ID:          "5d1c3e0a-7b7f-4c1e-9a51-000000000502",
		Name:        "Windows 10",
		Version:     "22H2",
		Build:       "19045",
		ReleaseDate: "2022-10-18",
		Description: "Final Windows 10 feature update.",
		DownloadURL: "https://www.microsoft.com/software-download/windows10",
	},
}
