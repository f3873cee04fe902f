package memory

import (
	"fmt"

	"github.com/YelzhanWeb/qr-order/internal/domain"
)

// Seed loads the sample catalog also shipped in the SQL migrations.
func Seed(s *Store) {
	for i := int64(1); i <= 5; i++ {
		s.AddTable(domain.Table{ID: i, Name: fmt.Sprintf("Bàn %d", i)})
	}

	s.AddCategory(domain.Category{ID: 1, Name: "Trà sữa"})
	s.AddCategory(domain.Category{ID: 2, Name: "Cà phê"})
	s.AddCategory(domain.Category{ID: 3, Name: "Bánh ngọt"})

	products := []domain.Product{
		{
			ID: 1, Name: "Trà Sữa Trân Châu", Price: 45000, CategoryID: 1,
			ImageURL: "https://placehold.co/100x100/EAD9D9/5C3D2E?text=Trà+Sữa",
			Options: domain.OptionSchema{
				"Size":  {"M", "L"},
				"Đường": {"100%", "70%", "50%"},
				"Đá":    {"100%", "50%", "0%"},
			},
		},
		{
			ID: 2, Name: "Trà Đào Cam Sả", Price: 50000, CategoryID: 1,
			ImageURL: "https://placehold.co/100x100/FFDAB9/E57A00?text=Trà+Đào",
			Options: domain.OptionSchema{
				"Size":  {"M", "L"},
				"Đường": {"100%", "70%"},
				"Đá":    {"100%", "50%"},
			},
		},
		{
			ID: 3, Name: "Cà Phê Sữa Đá", Price: 35000, CategoryID: 2,
			ImageURL: "https://placehold.co/100x100/A88B77/FFFFFF?text=Cà+Phê",
			Options: domain.OptionSchema{
				"Đường": {"Có", "Không"},
				"Đá":    {"Bình thường", "Ít đá"},
			},
		},
		{
			ID: 4, Name: "Americano", Price: 40000, CategoryID: 2,
			ImageURL: "https://placehold.co/100x100/3B2F2F/FFFFFF?text=Cà+Phê",
			Options:  domain.OptionSchema{"Nóng/Đá": {"Nóng", "Đá"}},
		},
		{
			ID: 5, Name: "Bánh Tiramisu", Price: 55000, CategoryID: 3,
			ImageURL: "https://placehold.co/100x100/D4B7A8/4A3728?text=Bánh",
			Options:  domain.OptionSchema{},
		},
	}
	for _, p := range products {
		p.IsAvailable = true
		s.AddProduct(p)
	}
}
