package entities

type BookingEmailData struct {
	UserName       string
	BookingCode    string
	ListingTitle   string
	FirstDate      string
	Occurrences    int
	TotalFormatted string
	CurrentYear    int
	Language       string
	Status         string
}
