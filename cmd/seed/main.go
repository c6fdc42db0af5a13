package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"renthub/internal/auth"
	"renthub/internal/database"
	"renthub/internal/models"

	"github.com/rs/zerolog"
)

// Demo dataset for local development. Re-running the tool is safe: users are
// matched by email and existing accounts are left untouched.

type seedUser struct {
	Email string
	Name  string
	Phone string
	Role  string
}

var seedUsers = []seedUser{
	{Email: "admin@renthub.local", Name: "Platform Admin", Phone: "37120000000", Role: models.RoleAdmin},
	{Email: "rajesh.owner@email.com", Name: "Rajesh Kumar", Phone: "9876543210", Role: models.RoleOwner},
	{Email: "priya.owner@email.com", Name: "Priya Sharma", Phone: "9876543211", Role: models.RoleOwner},
	{Email: "amit.owner@email.com", Name: "Amit Patel", Phone: "9876543212", Role: models.RoleOwner},
	{Email: "anjali.tenant@email.com", Name: "Anjali Gupta", Phone: "9876543213", Role: models.RoleTenant},
	{Email: "rahul.tenant@email.com", Name: "Rahul Singh", Phone: "9876543214", Role: models.RoleTenant},
	{Email: "sneha.tenant@email.com", Name: "Sneha Reddy", Phone: "9876543215", Role: models.RoleTenant},
}

// properties are keyed by the owner's seed email.
type seedProperty struct {
	OwnerEmail string
	Property   models.Property
}

var seedProperties = []seedProperty{
	{
		OwnerEmail: "rajesh.owner@email.com",
		Property: models.Property{
			Title:        "Luxury Apartment in Bandra West",
			Description:  "Spacious 3BHK apartment in the heart of Bandra. Sea view balconies, marble flooring and a modular kitchen.",
			Rent:         75000,
			Location:     "Hill Road, Bandra West, Mumbai",
			Amenities:    []string{"WiFi", "Gym", "Parking", "Security", "Power Backup", "Air Conditioning"},
			Photos:       []string{"https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?w=800"},
			Bedrooms:     3,
			Bathrooms:    3,
			AreaSqft:     1800,
			PropertyType: models.PropertyApartment,
			IsAvailable:  true,
		},
	},
	{
		OwnerEmail: "rajesh.owner@email.com",
		Property: models.Property{
			Title:        "Cozy Studio in Koramangala",
			Description:  "Charming studio apartment near the startup hub. Walking distance to 100ft Road restaurants and cafes.",
			Rent:         25000,
			Location:     "4th Block, Koramangala, Bangalore",
			Amenities:    []string{"WiFi", "Laundry", "Air Conditioning", "Geyser"},
			Photos:       []string{"https://images.unsplash.com/photo-1522708323590-d24dbb6b0267?w=800"},
			Bedrooms:     1,
			Bathrooms:    1,
			AreaSqft:     500,
			PropertyType: models.PropertyStudio,
			IsAvailable:  true,
		},
	},
	{
		OwnerEmail: "priya.owner@email.com",
		Property: models.Property{
			Title:        "Spacious Villa in Jubilee Hills",
			Description:  "Premium 4-bedroom independent villa with a private garden, servant quarters and two covered car parks.",
			Rent:         145000,
			Location:     "Road No. 45, Jubilee Hills, Hyderabad",
			Amenities:    []string{"Garden", "Garage", "Central AC", "Security"},
			Photos:       []string{"https://images.unsplash.com/photo-1564013799919-ab600027ffc6?w=800"},
			Bedrooms:     4,
			Bathrooms:    4,
			AreaSqft:     3500,
			PropertyType: models.PropertyVilla,
			IsAvailable:  true,
		},
	},
	{
		OwnerEmail: "priya.owner@email.com",
		Property: models.Property{
			Title:        "Sea Facing Flat in Besant Nagar",
			Description:  "Stunning 3BHK flat with a direct beach view. Airy, well ventilated, quiet neighborhood.",
			Rent:         45000,
			Location:     "2nd Avenue, Besant Nagar, Chennai",
			Amenities:    []string{"Sea View", "Lift", "Security", "Balcony"},
			Photos:       []string{"https://images.unsplash.com/photo-1512917774080-9991f1c4c750?w=800"},
			Bedrooms:     3,
			Bathrooms:    3,
			AreaSqft:     1600,
			PropertyType: models.PropertyApartment,
			IsAvailable:  true,
		},
	},
	{
		OwnerEmail: "amit.owner@email.com",
		Property: models.Property{
			Title:        "Luxury Farmhouse in Chattarpur",
			Description:  "Magnificent farmhouse on one acre with a private swimming pool, landscaped lawns and a party hall.",
			Rent:         250000,
			Location:     "Chattarpur Farms, New Delhi",
			Amenities:    []string{"Private Pool", "Lawn", "Security", "Modular Kitchen"},
			Photos:       []string{"https://images.unsplash.com/photo-1613490493576-7fde63acd811?w=800"},
			Bedrooms:     5,
			Bathrooms:    5,
			AreaSqft:     6000,
			PropertyType: models.PropertyHouse,
			IsAvailable:  true,
		},
	},
	{
		OwnerEmail: "amit.owner@email.com",
		Property: models.Property{
			Title:        "Modern Loft in Hauz Khas Village",
			Description:  "Contemporary loft overlooking the lake and deer park, surrounded by art galleries and cafes.",
			Rent:         65000,
			Location:     "Hauz Khas Village, New Delhi",
			Amenities:    []string{"Lake View", "Terrace", "Pet Friendly", "Fully Furnished"},
			Photos:       []string{"https://images.unsplash.com/photo-1536376072261-38c75010e6c9?w=800"},
			Bedrooms:     1,
			Bathrooms:    1,
			AreaSqft:     1200,
			PropertyType: models.PropertyApartment,
			IsAvailable:  true,
		},
	},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		dbPath   = flag.String("db", "./data/renthub.db", "path to sqlite db")
		password = flag.String("password", "password123", "password for all seeded accounts")
	)
	flag.Parse()

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	created, skipped := 0, 0
	ownerIDs := make(map[string]int64, len(seedUsers))
	for _, su := range seedUsers {
		user := &models.User{
			Email:        su.Email,
			PasswordHash: hash,
			Name:         su.Name,
			Phone:        su.Phone,
			Role:         su.Role,
		}
		err := db.CreateUser(ctx, user)
		switch {
		case errors.Is(err, database.ErrEmailTaken):
			existing, err := db.GetUserByEmail(ctx, su.Email)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", su.Email, err)
			}
			ownerIDs[su.Email] = existing.ID
			skipped++
		case err != nil:
			return fmt.Errorf("create user %s: %w", su.Email, err)
		default:
			ownerIDs[su.Email] = user.ID
			created++
		}
	}
	logger.Info().Int("created", created).Int("skipped", skipped).Msg("users seeded")

	// Listings are only inserted on a fresh database to keep re-runs clean.
	if skipped > 0 {
		logger.Info().Msg("existing users found, skipping property seed")
		return nil
	}

	for _, sp := range seedProperties {
		p := sp.Property
		p.OwnerID = ownerIDs[sp.OwnerEmail]
		if err := db.CreateProperty(ctx, &p); err != nil {
			return fmt.Errorf("create property %q: %w", p.Title, err)
		}
	}
	logger.Info().Int("properties", len(seedProperties)).Msg("properties seeded")
	logger.Info().Str("admin", "admin@renthub.local").Msg("seed complete")
	return nil
}
