package cache

import (
	"fmt"
	"strings"
)

const (
	settingsKey    = "settings:blog"
	postPagePrefix = "posts:page:"
	pageCountKey   = "pc:"
)

func SettingsKey() string {
	return settingsKey
}

// PostPageKey names a cached page of the blog listing. Filtered listings get their own entries.
func PostPageKey(page int, title, tag string) string {

	key := fmt.Sprintf("%s%d", postPagePrefix, page)
	if title != "" || tag != "" {
		key += ":" + strings.ToLower(title) + ":" + strings.ToLower(tag)
	}

	return key
}

// PostPagePattern matches every cached blog listing page.
func PostPagePattern() string {
	return postPagePrefix + "*"
}

func PageCountKey(page string) string {
	return pageCountKey + page
}
