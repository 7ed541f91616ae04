package factories

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/jaswdr/faker"
	"github.com/jimzijun/shechill-order-summary/internal/models"
	"github.com/jimzijun/shechill-order-summary/internal/timeutil"
	"github.com/lucsky/cuid"
)

var fake = faker.New()

var bakeryItems = []struct {
	name       string
	variations []string
}{
	{"Bagel", []string{"Plain", "Sesame", "Everything"}},
	{"Croissant", []string{"Butter", "Almond", "Chocolate"}},
	{"Sourdough Loaf", nil},
	{"Mille Crepe Cake", []string{"Matcha", "Original", "Taro"}},
	{"Egg Tart", nil},
	{"Coffee", []string{"Hot", "Iced"}},
	{"Milk Tea", []string{"Regular", "Less Sugar"}},
}

type OrderFactory struct{}

// CreatePickupOrder builds a Square-shaped open order with one pickup
// fulfillment at the given instant and one to three line items.
func (of *OrderFactory) CreatePickupOrder(pickupAt time.Time) models.Order {
	given := fake.Person().FirstName()
	family := fake.Person().LastName()
	email := fake.Internet().Email()
	phone := fake.Phone().Number()
	pickup := timeutil.ToUTCString(pickupAt)

	order := models.Order{
		ID:    cuid.New(),
		State: "OPEN",
		Fulfillments: []models.Fulfillment{
			{
				Type:  models.FulfillmentTypePickup,
				State: "PROPOSED",
				PickupDetails: &models.PickupDetails{
					PickupAt: &pickup,
					Recipient: &models.Recipient{
						GivenName:    &given,
						FamilyName:   &family,
						EmailAddress: &email,
						PhoneNumber:  &phone,
					},
				},
			},
		},
	}

	itemCount := fake.IntBetween(1, 3)
	for i := 0; i < itemCount; i++ {
		item := bakeryItems[rand.Intn(len(bakeryItems))]
		name := item.name
		li := models.LineItem{
			UID:      strPtr(cuid.New()),
			Name:     &name,
			Quantity: strconv.Itoa(fake.IntBetween(1, 6)),
		}
		if len(item.variations) > 0 {
			variation := item.variations[rand.Intn(len(item.variations))]
			li.VariationName = &variation
		}
		order.LineItems = append(order.LineItems, li)
	}

	return order
}

// CreateOrdersForWindow spreads pickup orders over business hours of the
// report window starting at now's local date.
func (of *OrderFactory) CreateOrdersForWindow(conv *timeutil.Converter, now time.Time, days, count int) []models.Order {
	today := now.In(conv.Location())
	orders := make([]models.Order, 0, count)
	for i := 0; i < count; i++ {
		day := rand.Intn(days)
		hour := fake.IntBetween(8, 18)
		minute := []int{0, 15, 30, 45}[rand.Intn(4)]
		pickupAt := time.Date(today.Year(), today.Month(), today.Day(), hour, minute, 0, 0, conv.Location()).AddDate(0, 0, day)
		orders = append(orders, of.CreatePickupOrder(pickupAt))
	}
	return orders
}

func strPtr(s string) *string {
	return &s
}
