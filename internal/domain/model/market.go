package model

// Item is a catalog entry as returned by the marketplace catalog API.
type Item struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Author    string         `json:"author"`
	URL       string         `json:"url"`
	Rating    float64        `json:"rating"`
	Sales     int64          `json:"sales"`
	UpdatedAt string         `json:"updated_at,omitempty"`
	Raw       map[string]any `json:"-"`
}

// MarketUser is the public profile of a marketplace account.
type MarketUser struct {
	Username  string         `json:"username"`
	Country   string         `json:"country"`
	Sales     string         `json:"sales"`
	Followers string         `json:"followers"`
	Image     string         `json:"image,omitempty"`
	Location  string         `json:"location,omitempty"`
	Raw       map[string]any `json:"-"`
}
