package recipes

import (
	"bytes"
	"fmt"
	"strings"

	"obiabedidi/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// RenderCard lays out a printable A4 recipe card. The QR code encodes link, which
// should point back at the recipe.
func RenderCard(r models.Recipe, link string) ([]byte, error) {
	qrPNG, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(r.Name), false)
	pdf.SetAuthor(tr(r.AuthorName), false)
	pdf.AddPage()

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")

	pdf.SetFont("Arial", "B", 20)
	pdf.MultiCell(140, 10, tr(r.Name), "", "L", false)
	pdf.SetFont("Arial", "I", 11)
	pdf.Cell(0, 7, tr("by "+r.AuthorName))
	pdf.Ln(10)

	if details := cardDetails(r); details != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(140, 6, tr(details), "", "L", false)
		pdf.Ln(2)
	}
	if r.Description != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr(r.Description), "", "L", false)
	}
	pdf.SetY(max(pdf.GetY(), 50))

	section := func(title string) {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 8, title)
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
	}

	switch c := r.Content.(type) {
	case models.SimpleContent:
		section("Ingredients")
		for _, ing := range c.Ingredients {
			pdf.MultiCell(0, 6, tr("- "+ing), "", "L", false)
		}
		section("Instructions")
		pdf.MultiCell(0, 6, tr(c.Instructions), "", "L", false)
	case models.AdvancedContent:
		section("Ingredients")
		for _, ing := range c.Ingredients {
			pdf.MultiCell(0, 6, tr("- "+ingredientLine(ing)), "", "L", false)
		}
		section("Instructions")
		for _, st := range c.Instructions {
			line := fmt.Sprintf("%d. %s", st.Step, st.Description)
			if st.Duration != "" {
				line += " (" + st.Duration + ")"
			}
			pdf.MultiCell(0, 6, tr(line), "", "L", false)
		}
	}

	if len(r.Allergens) > 0 {
		section("Allergens")
		pdf.MultiCell(0, 6, tr(strings.Join(r.Allergens, ", ")), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render card: %w", err)
	}
	return buf.Bytes(), nil
}

func cardDetails(r models.Recipe) string {
	var parts []string
	if r.Difficulty != "" {
		parts = append(parts, "Difficulty: "+string(r.Difficulty))
	}
	if r.ServingSize != "" {
		parts = append(parts, "Serving size: "+string(r.ServingSize))
	}
	if len(r.MealType) > 0 {
		meals := make([]string, len(r.MealType))
		for i, m := range r.MealType {
			meals[i] = string(m)
		}
		parts = append(parts, "Meal: "+strings.Join(meals, ", "))
	}
	if r.EthnicGroup != "" {
		parts = append(parts, "Cuisine: "+string(r.EthnicGroup))
	}
	if len(r.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(r.Tags, ", "))
	}
	return strings.Join(parts, "\n")
}

func ingredientLine(ing models.Ingredient) string {
	line := strings.TrimSpace(strings.Join([]string{ing.Amount, ing.Unit, ing.Name}, " "))
	line = strings.Join(strings.Fields(line), " ")
	if ing.Notes != "" {
		line += " (" + ing.Notes + ")"
	}
	return line
}
