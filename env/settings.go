package env

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
)

// BlogSettings is the site wide configuration an administrator can change at runtime.
type BlogSettings struct {
	Title         string `json:"title" bson:"title"`
	Author        string `json:"author" bson:"author"`
	Email         string `json:"email" bson:"email"`
	Description   string `json:"description" bson:"description"`
	RootURL       string `json:"root_url" bson:"root_url"`
	PostsPerPage  int    `json:"posts_per_page" bson:"posts_per_page"`
	CacheTime     int    `json:"cache_time" bson:"cache_time"`
	Debug         bool   `json:"debug" bson:"debug"`
	AllowPingback bool   `json:"allow_pingback" bson:"allow_pingback"`
}

func DefaultBlogSettings() BlogSettings {
	return BlogSettings{
		Title:         "sketchPatch",
		Author:        "Your Blog Author",
		RootURL:       "http://www.sketchpatch.com",
		PostsPerPage:  8,
		Debug:         false,
		AllowPingback: true,
	}
}

type option struct {
	apply func(s *BlogSettings, value string) bool
}

func stringOption(field func(*BlogSettings) *string) option {
	return option{apply: func(s *BlogSettings, value string) bool {
		*field(s) = strings.TrimSpace(value)
		return true
	}}
}

func positiveIntOption(field func(*BlogSettings) *int) option {
	return option{apply: func(s *BlogSettings, value string) bool {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 1 {
			return false
		}
		*field(s) = n
		return true
	}}
}

func nonNegativeIntOption(field func(*BlogSettings) *int) option {
	return option{apply: func(s *BlogSettings, value string) bool {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return false
		}
		*field(s) = n
		return true
	}}
}

func boolOption(field func(*BlogSettings) *bool) option {
	return option{apply: func(s *BlogSettings, value string) bool {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return false
		}
		*field(s) = b
		return true
	}}
}

// settingsSchema lists every option the settings form may send.
var settingsSchema = map[string]option{
	"title":       stringOption(func(s *BlogSettings) *string { return &s.Title }),
	"author":      stringOption(func(s *BlogSettings) *string { return &s.Author }),
	"email":       stringOption(func(s *BlogSettings) *string { return &s.Email }),
	"description": stringOption(func(s *BlogSettings) *string { return &s.Description }),
	"root_url": {apply: func(s *BlogSettings, value string) bool {
		u, err := url.Parse(strings.TrimSpace(value))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return false
		}
		s.RootURL = strings.TrimRight(u.String(), "/")
		return true
	}},
	"posts_per_page": positiveIntOption(func(s *BlogSettings) *int { return &s.PostsPerPage }),
	"cache_time":     nonNegativeIntOption(func(s *BlogSettings) *int { return &s.CacheTime }),
	"debug":          boolOption(func(s *BlogSettings) *bool { return &s.Debug }),
	"allow_pingback": boolOption(func(s *BlogSettings) *bool { return &s.AllowPingback }),
}

// OptionNames returns the recognized option names in order.
func OptionNames() []string {

	names := make([]string, 0, len(settingsSchema))
	for name := range settingsSchema {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// ApplyOptions coerces values onto s. Nothing is changed when any option is unknown or invalid.
func (s *BlogSettings) ApplyOptions(values map[string]string) error {

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	updated := *s
	for _, name := range names {

		opt, ok := settingsSchema[name]
		if !ok {
			return serverError.UnknownOptionError.New(name)
		}

		if !opt.apply(&updated, values[name]) {
			return serverError.InvalidOptionError.New(name, values[name])
		}
	}

	*s = updated
	return nil
}
