// Package report renders a field and a schedule for people: interactive HTML
// charts built with go-echarts and static PNG plots built with gonum/plot.
// Rendering never feeds back into the search.
package report
