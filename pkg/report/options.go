package report

import "fmt"

// Options controls chart size and titles.
type Options struct {
	Title string `json:"title" yaml:"title"`
	// Width and Height are in pixels for HTML and in points for PNG output.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	// AssetsHost overrides the echarts script location for offline pages.
	AssetsHost string `json:"assets_host" yaml:"assets_host"`
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.Title == "" {
		o.Title = "Sensor network lifetime"
	}
	if o.Width == 0 {
		o.Width = 800
	}
	if o.Height == 0 {
		o.Height = 600
	}
}

// Validate checks the dimensions.
func (o Options) Validate() error {
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("report: width and height must be non-negative")
	}
	return nil
}
