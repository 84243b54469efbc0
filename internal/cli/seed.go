package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/threadline-io/threadline/internal/models"
	"github.com/threadline-io/threadline/internal/storage"
)

func (c *CLI) newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a sample product catalog",
		Long:  `Insert a small sample catalog into MongoDB for local development.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSeed()
		},
	}
}

func sampleCatalog() []*models.Product {
	now := time.Now().UTC()
	return []*models.Product{
		{
			Name:        "Classic Cotton T-Shirt",
			Description: "Heavyweight cotton tee with a relaxed fit",
			Price:       19.99,
			Category:    "t-shirts",
			Brand:       "Threadline Basics",
			Tags:        []string{"cotton", "casual"},
			IsActive:    true,
			ImageURLs:   []string{},
			Sizes: []models.ProductSize{
				{Size: "S", Stock: 25},
				{Size: "M", Stock: 40},
				{Size: "L", Stock: 30},
				{Size: "XL", Stock: 15},
			},
			CreatedAt: now,
		},
		{
			Name:        "Slim Fit Jeans",
			Description: "Stretch denim with a mid rise",
			Price:       59.99,
			Category:    "jeans",
			Brand:       "Threadline Denim",
			Tags:        []string{"denim", "slim"},
			IsActive:    true,
			ImageURLs:   []string{},
			Sizes: []models.ProductSize{
				{Size: "30", Stock: 12},
				{Size: "32", Stock: 18},
				{Size: "34", Stock: 10},
			},
			CreatedAt: now,
		},
		{
			Name:        "Hooded Sweatshirt",
			Description: "Fleece-lined hoodie with kangaroo pocket",
			Price:       44.50,
			Category:    "hoodies",
			Brand:       "Threadline Basics",
			Tags:        []string{"fleece", "warm"},
			IsActive:    true,
			ImageURLs:   []string{},
			Sizes: []models.ProductSize{
				{Size: "M", Stock: 20},
				{Size: "L", Stock: 20},
			},
			CreatedAt: now,
		},
	}
}

func (c *CLI) runSeed() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.MongoDB.ConnectTimeout)
	client, err := storage.Connect(ctx, c.cfg.MongoDB)
	cancel()
	if err != nil {
		c.exitCode = ExitInternal
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(c.cfg.MongoDB.Database)
	products := storage.NewMongoProducts(db)

	opCtx, cancel := context.WithTimeout(context.Background(), c.cfg.MongoDB.QueryTimeout)
	defer cancel()

	catalog := sampleCatalog()
	for _, p := range catalog {
		if err := products.Create(opCtx, p); err != nil {
			c.exitCode = ExitInternal
			return err
		}
		c.debugf("seeded %s (%s)\n", p.Name, p.ID.Hex())
	}

	c.printf("Seeded %d products into %s\n", len(catalog), c.cfg.MongoDB.Database)
	return nil
}
