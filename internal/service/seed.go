package service

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/trackswift/internal/models"
)

var (
	seedFirstNames = []string{
		"Aarav", "Vivaan", "Aditya", "Vihaan", "Arjun", "Sai", "Reyansh", "Ayaan", "Krishna", "Ishaan",
		"Diya", "Saanvi", "Ananya", "Aadhya", "Pari", "Anika", "Navya", "Angel", "Myra", "Riya",
		"Rohan", "Vikram", "Neha", "Pooja", "Suresh", "Ramesh", "Geeta", "Sita", "Mohan", "Sohan",
	}
	seedLastNames = []string{
		"Sharma", "Gupta", "Patel", "Kumar", "Singh", "Reddy", "Joshi", "Malhotra", "Choudhury", "Iyer",
		"Verma", "Mehta", "Nair", "Das", "Chatterjee", "Banerjee", "Fernandes", "Khan", "Ali", "Mishra",
		"Yadav", "Gowda", "Rao", "Shetty", "Deshmukh", "Pawar", "Bhat", "Kulkarni", "Jain", "Agarwal",
	}
	seedBuildings = []string{"Green Apts", "Sunshine Tower", "Galaxy Heights", "Palm Grove", "Royal Enclave"}
	seedCouriers  = []string{"Ekart Logistics", "BlueDart Express", "Delhivery", "Ecom Express", "Xpressbees", "Shadowfax", "Gati"}
	seedPrices    = []int{499, 999, 1299, 2499, 5999}
	seedPayments  = []string{"Prepaid", "Postpaid", "COD"}
	seedLocations = []seedCity{
		{"Mumbai", "Maharashtra", []string{"Bhiwandi Hub", "Lower Parel Hub", "Andheri East Hub"}},
		{"Delhi", "Delhi", []string{"Okhla Phase III", "Dwarka Sector 9", "Connaught Place"}},
		{"Bangalore", "Karnataka", []string{"Electronic City", "Whitefield", "Koramangala"}},
		{"Hyderabad", "Telangana", []string{"Madhapur", "Banjara Hills", "Secunderabad"}},
		{"Chennai", "Tamil Nadu", []string{"Guindy", "T Nagar", "Anna Nagar"}},
		{"Kolkata", "West Bengal", []string{"Salt Lake", "Park Street", "Howrah"}},
		{"Pune", "Maharashtra", []string{"Hinjewadi", "Viman Nagar", "Kothrud"}},
		{"Ahmedabad", "Gujarat", []string{"SG Highway", "Maninagar", "Satellite"}},
		{"Jaipur", "Rajasthan", []string{"Malviya Nagar", "Vaishali Nagar", "C Scheme"}},
		{"Lucknow", "Uttar Pradesh", []string{"Gomti Nagar", "Hazratganj", "Alambagh"}},
	}
)

type seedCity struct {
	City  string
	State string
	Hubs  []string
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func randBetween(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int64N(hi-lo+1)
}

// GenerateDemoParcels 生成已妥投的演示包裹
// 收件人只写入旧 name 字段，寄件人与收件人由结构迁移补齐
func GenerateDemoParcels(rng *rand.Rand, count int) []models.Parcel {
	parcels := make([]models.Parcel, 0, count)
	used := make(map[string]struct{}, count)
	for len(parcels) < count {
		id := fmt.Sprintf("TRK2026%d", randBetween(rng, 10000, 99999))
		if _, dup := used[id]; dup {
			continue
		}
		used[id] = struct{}{}

		name := pick(rng, seedFirstNames) + " " + pick(rng, seedLastNames)
		dest := pick(rng, seedLocations)
		origin := pick(rng, seedLocations)
		for origin.City == dest.City {
			origin = pick(rng, seedLocations)
		}
		addr := fmt.Sprintf("Flat %d, %s, %s, %s", randBetween(rng, 1, 900), pick(rng, seedBuildings), dest.City, dest.State)
		startAddr := fmt.Sprintf("Main Warehouse, %s, %s, %s", origin.Hubs[0], origin.City, origin.State)
		courier := pick(rng, seedCouriers)
		agent := fmt.Sprintf("%s (%d)", pick(rng, seedFirstNames), randBetween(rng, 7000000000, 9999999999))

		history := models.TrackingHistory{
			{
				Status:      "Order Confirmed",
				Timestamp:   "Mon, 26th Jan '26 - 09:30am",
				Location:    "Online",
				Description: "Your Order has been placed.",
				Subtext:     fmt.Sprintf("Order ID #OD%d", randBetween(rng, 1000000, 9999999)),
			},
			{
				Status:      "Picked Up",
				Timestamp:   "Tue, 27th Jan '26 - 02:15pm",
				Location:    startAddr,
				Description: "Seller has handed over the package.",
				Subtext:     courier,
			},
			{
				Status:      "In Transit",
				Timestamp:   "Wed, 28th Jan '26 - 11:00am",
				Location:    pick(rng, origin.Hubs) + ", " + origin.City,
				Description: "Arrived at Origin Facility",
				Subtext:     "Processing",
			},
			{
				Status:      "Shipped",
				Timestamp:   "Thu, 29th Jan '26 - 05:45pm",
				Location:    pick(rng, dest.Hubs) + ", " + dest.City,
				Description: "Arrived at Destination Hub",
				Subtext:     courier + " Facility",
			},
			{
				Status:      "Out For Delivery",
				Timestamp:   "Fri, 30th Jan '26 - 08:30am",
				Location:    dest.City + " Delivery Center",
				Description: "Your item is out for delivery",
				Subtext:     "Agent: " + agent,
			},
			{
				Status:      "Delivered",
				Timestamp:   "Fri, 30th Jan '26 - 06:20pm",
				Location:    addr,
				Description: "Your item has been delivered",
				Subtext:     "Signed by: Receiver",
			},
		}

		parcels = append(parcels, models.Parcel{
			ID:              id,
			Name:            name,
			Status:          "Delivered",
			Address:         addr,
			StartAddress:    startAddr,
			EndAddress:      addr,
			Price:           fmt.Sprintf("₹ %d", pick(rng, seedPrices)),
			Phone:           fmt.Sprintf("+91 %d", randBetween(rng, 7000000000, 9999999999)),
			Email:           strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@example.com",
			PaymentType:     pick(rng, seedPayments),
			Region:          "Domestic",
			Image:           "uploads/parcel_box.png",
			TrackingHistory: history,
			CurrentLocation: addr,
		})
	}
	return parcels
}
