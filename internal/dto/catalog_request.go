package dto

type CategoryRequest struct {
	Name  string `json:"name" form:"name" validate:"required,min=3,max=32"`
	Image string `json:"image" form:"image"`
}

type CategoryUpdateRequest struct {
	Name  string `json:"name" form:"name" validate:"omitempty,min=3,max=32"`
	Image string `json:"image" form:"image"`
}

type SubCategoryRequest struct {
	Name     string `json:"name" form:"name" validate:"required,min=2,max=32"`
	Category string `json:"category" form:"category" validate:"required,mongodb"`
}

type SubCategoryUpdateRequest struct {
	Name     string `json:"name" form:"name" validate:"omitempty,min=2,max=32"`
	Category string `json:"category" form:"category" validate:"omitempty,mongodb"`
}

type BrandRequest struct {
	Name  string `json:"name" form:"name" validate:"required,min=3,max=32"`
	Image string `json:"image" form:"image"`
}

type BrandUpdateRequest struct {
	Name  string `json:"name" form:"name" validate:"omitempty,min=3,max=32"`
	Image string `json:"image" form:"image"`
}

type ProductRequest struct {
	Title              string   `json:"title" form:"title" validate:"required,min=3,max=120"`
	Description        string   `json:"description" form:"description" validate:"required,min=20,max=2000"`
	Quantity           *int     `json:"quantity" form:"quantity" validate:"required,min=0"`
	Sold               int      `json:"sold" form:"sold" validate:"min=0"`
	Price              float64  `json:"price" form:"price" validate:"required,gt=0,max=200000"`
	PriceAfterDiscount float64  `json:"priceAfterDiscount" form:"priceAfterDiscount" validate:"omitempty,gt=0,ltfield=Price"`
	Colors             []string `json:"colors" form:"colors"`
	ImageCover         string   `json:"imageCover" form:"imageCover" validate:"required"`
	Images             []string `json:"images" form:"images"`
	Category           string   `json:"category" form:"category" validate:"required,mongodb"`
	Subcategories      []string `json:"subcategories" form:"subcategories" validate:"omitempty,dive,mongodb"`
	Brand              string   `json:"brand" form:"brand" validate:"omitempty,mongodb"`
	RatingsAverage     float64  `json:"ratingsAverage" form:"ratingsAverage" validate:"omitempty,min=1,max=5"`
	RatingsQuantity    int      `json:"ratingsQuantity" form:"ratingsQuantity" validate:"min=0"`
}

type ProductUpdateRequest struct {
	Title              string   `json:"title" form:"title" validate:"omitempty,min=3,max=120"`
	Description        string   `json:"description" form:"description" validate:"omitempty,min=20,max=2000"`
	Quantity           *int     `json:"quantity" form:"quantity" validate:"omitempty,min=0"`
	Price              float64  `json:"price" form:"price" validate:"omitempty,gt=0,max=200000"`
	PriceAfterDiscount float64  `json:"priceAfterDiscount" form:"priceAfterDiscount" validate:"omitempty,gt=0"`
	Colors             []string `json:"colors" form:"colors"`
	ImageCover         string   `json:"imageCover" form:"imageCover"`
	Images             []string `json:"images" form:"images"`
	Category           string   `json:"category" form:"category" validate:"omitempty,mongodb"`
	Subcategories      []string `json:"subcategories" form:"subcategories" validate:"omitempty,dive,mongodb"`
	Brand              string   `json:"brand" form:"brand" validate:"omitempty,mongodb"`
}

type CouponRequest struct {
	Name     string  `json:"name" validate:"required"`
	Expire   string  `json:"expire" validate:"required"`
	Discount float64 `json:"discount" validate:"required,gt=0,lte=100"`
}

type CouponUpdateRequest struct {
	Name     string  `json:"name"`
	Expire   string  `json:"expire"`
	Discount float64 `json:"discount" validate:"omitempty,gt=0,lte=100"`
}

type ReviewRequest struct {
	Review  string  `json:"review"`
	Rating  float64 `json:"rating" validate:"required,min=1,max=5"`
	Product string  `json:"product" validate:"required,mongodb"`
}

type ReviewUpdateRequest struct {
	Review string  `json:"review"`
	Rating float64 `json:"rating" validate:"omitempty,min=1,max=5"`
}
