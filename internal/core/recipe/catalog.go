package recipe

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recipe-discovery/internal/core/document"
	"recipe-discovery/internal/infrastructure/config"
	"recipe-discovery/internal/pkg/common"
)

const defaultRatingConcurrency = 8

// Catalog 從文件庫讀取食譜與使用者資料
type Catalog struct {
	fetcher           document.Fetcher
	recipesCollection string
	usersCollection   string
	reviewsCollection string
	concurrency       int
}

// NewCatalog 建立食譜目錄
func NewCatalog(fetcher document.Fetcher, cfg config.DocumentStoreConfig) *Catalog {
	c := &Catalog{
		fetcher:           fetcher,
		recipesCollection: cfg.RecipesCollection,
		usersCollection:   cfg.UsersCollection,
		reviewsCollection: cfg.ReviewsCollection,
		concurrency:       cfg.RatingConcurrency,
	}
	if c.recipesCollection == "" {
		c.recipesCollection = "Recipes"
	}
	if c.usersCollection == "" {
		c.usersCollection = "users"
	}
	if c.reviewsCollection == "" {
		c.reviewsCollection = "reviews"
	}
	if c.concurrency <= 0 {
		c.concurrency = defaultRatingConcurrency
	}
	return c
}

// Recipes 讀取全部食譜。無效文件會被略過；缺少 avgRating 的食譜以評論子集合計算平均分數。
func (c *Catalog) Recipes(ctx context.Context) ([]Recipe, error) {
	docs, err := c.fetcher.FetchAll(ctx, c.recipesCollection)
	if err != nil {
		return []Recipe{}, err
	}

	recipes := make([]Recipe, 0, len(docs))
	for _, doc := range docs {
		r, err := ParseRecipe(doc)
		if err != nil {
			common.LogWarn("略過無效食譜文件",
				zap.String("id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		recipes = append(recipes, r)
	}

	if err := c.fillRatings(ctx, recipes); err != nil {
		return []Recipe{}, err
	}
	return recipes, nil
}

// fillRatings 併發讀取評論子集合；單一食譜讀取失敗時該食譜維持無評分
func (c *Catalog) fillRatings(ctx context.Context, recipes []Recipe) error {
	var g errgroup.Group
	g.SetLimit(c.concurrency)

	for i := range recipes {
		if recipes[i].AvgRating != nil {
			continue
		}
		i := i
		g.Go(func() error {
			path := document.SubCollection(c.recipesCollection, recipes[i].ID, c.reviewsCollection)
			reviews, err := c.fetcher.FetchAll(ctx, path)
			if err != nil {
				common.LogWarn("讀取評論失敗",
					zap.String("recipe_id", recipes[i].ID),
					zap.Error(err),
				)
				return nil
			}
			recipes[i].AvgRating = AverageRating(reviews)
			return nil
		})
	}

	g.Wait()
	return ctx.Err()
}

// Recipe 依 ID 讀取單一食譜
func (c *Catalog) Recipe(ctx context.Context, id string) (Recipe, error) {
	recipes, err := c.Recipes(ctx)
	if err != nil {
		return Recipe{}, err
	}
	r, ok := Find(recipes, id)
	if !ok {
		return Recipe{}, common.ErrRecipeNotFound
	}
	return r, nil
}

// Profile 讀取使用者個人資料；未登入或找不到使用者時回傳空的個人資料
func (c *Catalog) Profile(ctx context.Context, userID string) (UserProfile, error) {
	empty := UserProfile{
		ID:                 userID,
		Allergies:          []string{},
		Restrictions:       []string{},
		DietaryPreferences: []string{},
	}
	if userID == "" {
		return empty, nil
	}

	docs, err := c.fetcher.FetchAll(ctx, c.usersCollection)
	if err != nil {
		return empty, err
	}
	for _, doc := range docs {
		if doc.ID != userID {
			continue
		}
		profile, err := ParseProfile(doc)
		if err != nil {
			return empty, common.ErrDocumentStore.Wrap(err)
		}
		return profile, nil
	}
	return empty, nil
}
