package domain

// JobSite is one curated job-board link for a destination country.
type JobSite struct {
	ID       int64  `json:"id"`
	Country  string `json:"country"`
	SiteName string `json:"site_name"`
	SiteURL  string `json:"site_url"`
}

// PopularCountry aggregates how many curated sites a country has.
type PopularCountry struct {
	Country   string `json:"country"`
	SiteCount int    `json:"site_count"`
}
