package models

// Requests for the read-only query endpoints. Defined in domain for consistency and reuse.

type AssetsRequest struct {
	Sort  string `query:"sort" json:"sort" default:"market_cap" validate:"oneof=market_cap volume change"`
	Limit int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=250"`
}

type NewsRequest struct {
	Category string `query:"category" json:"category" validate:"omitempty,oneof=crypto economy markets regulation general"`
	Limit    int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=200"`
}

type CalendarRequest struct {
	Country string `query:"country" json:"country" validate:"omitempty,alpha,len=2"`
	From    string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To      string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit   int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}

type WhalesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"omitempty,uppercase,max=10"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=200"`
}

type FedRequest struct {
	Type  string `query:"type" json:"type" validate:"omitempty,oneof=rate_decision minutes speech projection"`
	Limit int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}
