package sitefinity

import (
	"net/url"
	"strconv"
	"strings"
)

// FilterContentTypes keeps only the types named in allow, in discovery
// order. Names in allow that the service does not expose are ignored.
// A nil allow list keeps every type.
func FilterContentTypes(types []*ContentType, allow []string) []*ContentType {
	if allow == nil {
		return types
	}

	allowed := make(map[string]bool, len(allow))
	for _, name := range allow {
		allowed[name] = true
	}

	filtered := make([]*ContentType, 0, len(types))
	for _, t := range types {
		if allowed[t.Name] {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// CountTasks plans one count request per content type, or one per
// content type and locale when locales are configured.
func CountTasks(cfg *Config, types []*ContentType) []*FetchTask {
	base := cfg.ServiceURL()

	var tasks []*FetchTask
	for _, t := range types {
		path := strings.Trim(t.Path(), "/")
		if !cfg.Localized() {
			tasks = append(tasks, &FetchTask{
				ContentType: t.Name,
				Path:        path,
				URL:         base + "/" + path + "/$count",
				Kind:        TaskCount,
			})
			continue
		}
		for _, locale := range cfg.Locales {
			tasks = append(tasks, &FetchTask{
				ContentType: t.Name,
				Path:        path,
				Locale:      locale,
				URL:         base + "/" + path + "/$count?sf_culture=" + url.QueryEscape(locale),
				Kind:        TaskCount,
			})
		}
	}
	return tasks
}

// PageCount returns the number of pages needed to cover total items.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// PageTasks plans the page requests for each count task. totals[i] is the
// item count returned for counts[i]. A zero total yields no pages.
func PageTasks(cfg *Config, counts []*FetchTask, totals []int) []*FetchTask {
	base := cfg.ServiceURL()
	top := cfg.PageSize

	var tasks []*FetchTask
	for i, count := range counts {
		pages := PageCount(totals[i], top)
		for p := 0; p < pages; p++ {
			skip := p * top

			var b strings.Builder
			b.WriteString(base)
			b.WriteString("/")
			b.WriteString(count.Path)
			b.WriteString("?$skip=")
			b.WriteString(strconv.Itoa(skip))
			b.WriteString("&$top=")
			b.WriteString(strconv.Itoa(top))
			b.WriteString("&$expand=*")
			if count.Locale != "" {
				b.WriteString("&sf_culture=")
				b.WriteString(url.QueryEscape(count.Locale))
			}

			tasks = append(tasks, &FetchTask{
				ContentType: count.ContentType,
				Path:        count.Path,
				Locale:      count.Locale,
				URL:         b.String(),
				Kind:        TaskPage,
				Skip:        skip,
				Top:         top,
			})
		}
	}
	return tasks
}
