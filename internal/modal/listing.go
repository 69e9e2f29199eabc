package modal

type Seller struct {
	Address    string `json:"address"`
	Reputation int    `json:"reputation"`
	Verified   bool   `json:"verified"`
}

type ListingStats struct {
	Downloads   int    `json:"downloads"`
	Subscribers int    `json:"subscribers"`
	LastUpdated string `json:"lastUpdated"`
}

type Listing struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    Category     `json:"category"`
	Price       int          `json:"price"`
	Seller      Seller       `json:"seller"`
	Stats       ListingStats `json:"stats"`
}

type Trend struct {
	Value      float64 `json:"value"`
	IsPositive bool    `json:"isPositive"`
}

type StatCard struct {
	Title    string `json:"title"`
	Value    string `json:"value"`
	Subtitle string `json:"subtitle"`
	Trend    Trend  `json:"trend"`
	Variant  string `json:"variant"`
}
