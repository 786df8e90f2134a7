package source

import (
	"fmt"

	"github.com/fwojciec/sitefinity"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatTask describes a planned request for display, e.g.
// "news [de] skip=50 top=50".
func FormatTask(task *sitefinity.FetchTask) string {
	s := task.ContentType
	if task.Locale != "" {
		s += " [" + task.Locale + "]"
	}
	if task.Kind == sitefinity.TaskPage {
		s += fmt.Sprintf(" skip=%d top=%d", task.Skip, task.Top)
	}
	return s
}

// FormatProgress renders a progress event as a single status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Type {
	case ProgressStarted:
		return fmt.Sprintf("%s: started, %d total", event.Stage, event.Total)
	case ProgressFailed:
		return fmt.Sprintf("%s: failed %s: %s", event.Stage, TruncateURL(event.URL, 60), sitefinity.ErrorMessage(event.Error))
	case ProgressFinished:
		return fmt.Sprintf("%s: finished %d/%d", event.Stage, event.Completed, event.Total)
	}
	return fmt.Sprintf("%s: [%d/%d] %s", event.Stage, event.Completed, event.Total, TruncateURL(event.URL, 60))
}
