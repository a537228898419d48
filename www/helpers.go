package www

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"timeAgo": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			d := time.Since(t)
			switch {
			case d < time.Minute:
				return "just now"
			case d < time.Hour:
				m := int(d.Minutes())
				if m == 1 {
					return "1 minute ago"
				}
				return fmt.Sprintf("%d minutes ago", m)
			case d < 24*time.Hour:
				h := int(d.Hours())
				if h == 1 {
					return "1 hour ago"
				}
				return fmt.Sprintf("%d hours ago", h)
			default:
				days := int(d.Hours() / 24)
				if days == 1 {
					return "1 day ago"
				}
				return fmt.Sprintf("%d days ago", days)
			}
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("2006-01-02 15:04:05")
		},
		"statusColor": func(online bool) string {
			if online {
				return "badge-online"
			}
			return "badge-offline"
		},
		"outcomeColor": func(outcome string) string {
			switch outcome {
			case "ok":
				return "badge-online"
			case "failed":
				return "badge-offline"
			default:
				return "badge-muted"
			}
		},
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"actionLabel": func(action string) string {
			switch action {
			case "configure":
				return "Config"
			case "ota":
				return "OTA"
			case "delete-node":
				return "Delete"
			case "delete-file":
				return "Delete"
			case "rename-file":
				return "Rename"
			case "copy-link":
				return "Copy Link"
			case "logs":
				return "Logs"
			default:
				return action
			}
		},
	}
}
