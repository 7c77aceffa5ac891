package http

type createProductReq struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Unit        string  `json:"unit"`
	Image       string  `json:"image"`
	Location    string  `json:"location"`
	Owner       struct {
		OwnerName  string `json:"ownerName"`
		OwnerPhoto string `json:"ownerPhoto"`
	} `json:"owner"`
}

type submitInterestReq struct {
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
	Quantity  int    `json:"quantity"`
	Message   string `json:"message"`
}

type updateInterestStatusReq struct {
	Status string `json:"status"`
}
