package vectorindex

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"barkeep/internal/domain"
)

// formatVersion tags every persisted artifact. Loading an artifact with a
// different version fails loudly instead of silently misaligning.
const formatVersion = 1

const (
	recipeVectorsFile     = "recipes.vec"
	recipeMetaFile        = "recipes.meta"
	ingredientVectorsFile = "ingredients.vec"
	ingredientMetaFile    = "ingredients.meta"
)

type vectorArtifact struct {
	Version   int
	Dimension int
	Vectors   [][]float64
}

type recipeMetaArtifact struct {
	Version int
	Recipes []domain.Recipe
}

type ingredientMetaArtifact struct {
	Version     int
	Ingredients []string
}

func artifactsPresent(dir string) bool {
	for _, name := range []string{recipeVectorsFile, recipeMetaFile, ingredientVectorsFile, ingredientMetaFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

func (x *Index) persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir %s: %w", dir, err)
	}
	if err := writeGob(filepath.Join(dir, recipeVectorsFile), vectorArtifact{
		Version: formatVersion, Dimension: x.recipes.dimension, Vectors: x.recipes.vectors,
	}); err != nil {
		return err
	}
	if err := writeGob(filepath.Join(dir, recipeMetaFile), recipeMetaArtifact{
		Version: formatVersion, Recipes: x.recipeMeta,
	}); err != nil {
		return err
	}
	if err := writeGob(filepath.Join(dir, ingredientVectorsFile), vectorArtifact{
		Version: formatVersion, Dimension: x.ingredients.dimension, Vectors: x.ingredients.vectors,
	}); err != nil {
		return err
	}
	return writeGob(filepath.Join(dir, ingredientMetaFile), ingredientMetaArtifact{
		Version: formatVersion, Ingredients: x.ingredientMeta,
	})
}

func (x *Index) load(dir string) error {
	var recVecs, ingVecs vectorArtifact
	var recMeta recipeMetaArtifact
	var ingMeta ingredientMetaArtifact
	if err := readGob(filepath.Join(dir, recipeVectorsFile), &recVecs); err != nil {
		return err
	}
	if err := readGob(filepath.Join(dir, recipeMetaFile), &recMeta); err != nil {
		return err
	}
	if err := readGob(filepath.Join(dir, ingredientVectorsFile), &ingVecs); err != nil {
		return err
	}
	if err := readGob(filepath.Join(dir, ingredientMetaFile), &ingMeta); err != nil {
		return err
	}
	for _, v := range []int{recVecs.Version, recMeta.Version, ingVecs.Version, ingMeta.Version} {
		if v != formatVersion {
			return fmt.Errorf("index artifact version %d does not match %d; rebuild required", v, formatVersion)
		}
	}
	if len(recVecs.Vectors) != len(recMeta.Recipes) {
		return fmt.Errorf("recipe index misaligned: %d vectors, %d metadata entries", len(recVecs.Vectors), len(recMeta.Recipes))
	}
	if len(ingVecs.Vectors) != len(ingMeta.Ingredients) {
		return fmt.Errorf("ingredient index misaligned: %d vectors, %d metadata entries", len(ingVecs.Vectors), len(ingMeta.Ingredients))
	}
	if recVecs.Dimension != ingVecs.Dimension {
		return fmt.Errorf("index dimension mismatch: recipes %d, ingredients %d", recVecs.Dimension, ingVecs.Dimension)
	}
	if d := x.embedder.Dimension(); d != 0 && d != recVecs.Dimension {
		return fmt.Errorf("embedder dimension %d does not match persisted index dimension %d; rebuild required", d, recVecs.Dimension)
	}
	var err error
	if x.recipes, err = newFlatIndex(recVecs.Dimension, recVecs.Vectors); err != nil {
		return fmt.Errorf("load recipe index: %w", err)
	}
	if x.ingredients, err = newFlatIndex(ingVecs.Dimension, ingVecs.Vectors); err != nil {
		return fmt.Errorf("load ingredient index: %w", err)
	}
	x.recipeMeta = recMeta.Recipes
	x.ingredientMeta = ingMeta.Ingredients
	return nil
}

func writeGob(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func readGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
