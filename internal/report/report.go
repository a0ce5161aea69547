// Package report archives generated mission plans. Only the text the model
// produced is stored; checklist edits made in the viewer are not persisted.
package report

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("report not found")

// DownloadName is the file name offered when a report is downloaded.
const DownloadName = "mission-plan.md"

type Report struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ProjectFile string    `json:"project_file"`
	ProfileFile string    `json:"profile_file"`
	Markdown    string    `json:"markdown"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary is a Report without its body, for listings.
type Summary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ProjectFile string    `json:"project_file"`
	ProfileFile string    `json:"profile_file"`
	CreatedAt   time.Time `json:"created_at"`
}
