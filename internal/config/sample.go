package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# EstateInsights configuration
version: "1.0"

api:
  # Root of the analysis service. analyze/, areas/, generate-summary/,
  # compare/ and health/ are resolved against it.
  base_url: "` + DefaultBaseURL + `"
  # The hosted service may take a while to wake up.
  timeout: 60s
  user_agent: "estateinsights"

table:
  # Rows shown per page in the data table (values below 1 use 5)
  rows_per_page: 5
  # Locale used to order text columns, e.g. en, hi, mr
  locale: "en"

chart:
  # composed, line, bar or area
  default_mode: "composed"
  # Plot height in terminal rows
  height: 12

output:
  # text, json, markdown, csv or prompt
  default_format: "text"
  # auto, always or never
  color_mode: "auto"
  # default, high-contrast or minimal
  theme: "default"
  # Directory for CSV exports
  export_dir: "."
  verbose: false
`
}

// MinimalSampleConfig returns a compact configuration file
func MinimalSampleConfig() string {
	return `version: "1.0"
api:
  base_url: "` + DefaultBaseURL + `"
output:
  default_format: "text"
`
}
