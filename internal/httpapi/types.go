// Package httpapi serves the dashboard page and the JSON endpoints behind its
// callbacks: dropdown options, chart updates and date picker bounds.
package httpapi

// HealthJSON is the liveness response.
type HealthJSON struct {
	OK      bool `json:"ok"`
	Symbols int  `json:"symbols"`
}

// ErrorJSON is the body of every non-2xx response.
type ErrorJSON struct {
	Error string `json:"error"`
}

// pageData feeds the index template.
type pageData struct {
	Title       string
	Placeholder string
	MinDate     string
	MaxDate     string
	EndDate     string
}
