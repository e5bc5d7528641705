package catalog

import "obiabedidi/models"

// seed is the built-in catalogue of Ghanaian dishes. IDs are derived from slug.
var seed = []struct {
	slug string
	Recipe
}{
	{"jollof-rice", Recipe{
		Name:        "Jollof Rice",
		Description: "A beloved Ghanaian dish made with rice cooked in spiced tomato sauce, creating a flavorful and aromatic one-pot meal.",
		Region:      "Greater Accra",
		PrepTime:    "30 mins",
		CookTime:    "1 hour",
		Servings:    6,
		Difficulty:  models.DifficultyMedium,
		Ingredients: []models.Ingredient{
			{Name: "Long grain rice", Amount: "3 cups", Notes: "Washed and drained"},
			{Name: "Tomatoes", Amount: "6 medium", Notes: "Blended"},
			{Name: "Onions", Amount: "2 large", Notes: "1 blended, 1 diced"},
			{Name: "Tomato paste", Amount: "3 tablespoons"},
			{Name: "Vegetable oil", Amount: "1/2 cup"},
			{Name: "Chicken stock", Amount: "3 cups"},
			{Name: "Garlic", Amount: "4 cloves", Notes: "Minced"},
			{Name: "Ginger", Amount: "2 inches", Notes: "Grated"},
			{Name: "Scotch bonnet pepper", Amount: "1", Notes: "Adjust to taste"},
			{Name: "Curry powder", Amount: "1 tablespoon"},
			{Name: "Thyme", Amount: "1 teaspoon"},
			{Name: "Bay leaves", Amount: "2"},
			{Name: "Salt", Amount: "To taste"},
		},
		Instructions: []models.Step{
			{Step: 1, Description: "Blend tomatoes, one onion, garlic, ginger, and scotch bonnet pepper until smooth.", Duration: "5 mins"},
			{Step: 2, Description: "Heat oil in a large pot and sauté diced onions until translucent.", Duration: "5 mins"},
			{Step: 3, Description: "Add tomato paste and fry for a few minutes until the oil slightly separates.", Duration: "3-5 mins"},
			{Step: 4, Description: "Pour in the blended tomato mixture and cook until the oil rises to the top.", Duration: "15-20 mins"},
			{Step: 5, Description: "Add chicken stock, curry powder, thyme, bay leaves, and salt. Bring to a boil.", Duration: "5 mins"},
			{Step: 6, Description: "Add rice, stir, reduce heat, cover and simmer until rice is cooked and liquid is absorbed.", Duration: "20-25 mins"},
		},
		ImageURL: "/images/jollof-rice.jpg",
		Tags:     []string{"Main Course", "Rice Dishes", "Popular", "Party Favorite"},
	}},
	{"waakye", Recipe{
		Name:        "Waakye",
		Description: "A traditional Ghanaian dish of rice and beans cooked together with dried millet stalks or sorghum leaves, giving it its characteristic color.",
		Region:      "Northern Region",
		PrepTime:    "45 mins",
		CookTime:    "1.5 hours",
		Servings:    8,
		Difficulty:  models.DifficultyMedium,
		Ingredients: []models.Ingredient{
			{Name: "Rice", Amount: "3 cups"},
			{Name: "Black-eyed peas", Amount: "2 cups", Notes: "Soaked overnight"},
			{Name: "Waakye leaves", Amount: "5-6 pieces", Notes: "Or sorghum leaves"},
			{Name: "Baking soda", Amount: "1/2 teaspoon"},
			{Name: "Salt", Amount: "To taste"},
		},
		Instructions: []models.Step{
			{Step: 1, Description: "Wash and soak beans overnight. Drain and set aside.", Duration: "Overnight"},
			{Step: 2, Description: "Boil beans with waakye leaves and baking soda until half cooked.", Duration: "45 mins"},
			{Step: 3, Description: "Add rice and salt, continue cooking until both rice and beans are tender.", Duration: "25-30 mins"},
		},
		ImageURL: "/images/waakye.jpg",
		Tags:     []string{"Main Course", "Breakfast", "Street Food", "Vegetarian"},
	}},
	{"kelewele", Recipe{
		Name:        "Kelewele",
		Description: "Ripe plantain cubes tossed in ginger, pepper and spices, then fried until caramelised. A favourite evening street snack.",
		Region:      "Greater Accra",
		PrepTime:    "15 mins",
		CookTime:    "15 mins",
		Servings:    4,
		Difficulty:  models.DifficultyEasy,
		Ingredients: []models.Ingredient{
			{Name: "Ripe plantains", Amount: "4", Notes: "Cut into cubes"},
			{Name: "Ginger", Amount: "2 inches", Notes: "Grated"},
			{Name: "Cayenne pepper", Amount: "1 teaspoon"},
			{Name: "Onion", Amount: "1 small", Notes: "Blended"},
			{Name: "Salt", Amount: "To taste"},
			{Name: "Vegetable oil", Amount: "For frying"},
		},
		Instructions: []models.Step{
			{Step: 1, Description: "Blend ginger, onion, pepper and salt into a paste.", Duration: "3 mins"},
			{Step: 2, Description: "Toss the plantain cubes in the spice paste and leave to marinate.", Duration: "10 mins"},
			{Step: 3, Description: "Deep fry in hot oil until golden brown and caramelised.", Duration: "10-15 mins"},
		},
		Tags: []string{"Snack", "Street Food", "Vegetarian"},
	}},
	{"light-soup", Recipe{
		Name:        "Light Soup",
		Description: "A thin, spicy tomato-based soup usually made with goat or chicken and served with fufu.",
		Region:      "Ashanti Region",
		PrepTime:    "20 mins",
		CookTime:    "50 mins",
		Servings:    6,
		Difficulty:  models.DifficultyMedium,
		Ingredients: []models.Ingredient{
			{Name: "Goat meat", Amount: "1 kg", Notes: "Cut into pieces"},
			{Name: "Tomatoes", Amount: "5 medium"},
			{Name: "Onions", Amount: "2 medium"},
			{Name: "Garden eggs", Amount: "4"},
			{Name: "Scotch bonnet pepper", Amount: "2"},
			{Name: "Ginger", Amount: "1 inch"},
			{Name: "Salt", Amount: "To taste"},
		},
		Instructions: []models.Step{
			{Step: 1, Description: "Season the meat with ginger, onion and salt and steam in its own juices.", Duration: "15 mins"},
			{Step: 2, Description: "Add water with the tomatoes, garden eggs and peppers and boil until soft.", Duration: "15 mins"},
			{Step: 3, Description: "Blend the vegetables, strain back into the pot and simmer.", Duration: "20 mins"},
		},
		Tags: []string{"Soup", "Main Course", "Spicy"},
	}},
	{"groundnut-soup", Recipe{
		Name:        "Groundnut Soup",
		Description: "Rich peanut butter soup slow-cooked with chicken, tomatoes and peppers, served with rice balls (omo tuo).",
		Region:      "Northern Region",
		PrepTime:    "25 mins",
		CookTime:    "2 hours",
		Servings:    8,
		Difficulty:  models.DifficultyHard,
		Ingredients: []models.Ingredient{
			{Name: "Chicken", Amount: "1.5 kg"},
			{Name: "Groundnut paste", Amount: "2 cups", Notes: "Unsweetened"},
			{Name: "Tomatoes", Amount: "4 medium"},
			{Name: "Onions", Amount: "2 medium"},
			{Name: "Scotch bonnet pepper", Amount: "2"},
			{Name: "Salt", Amount: "To taste"},
		},
		Instructions: []models.Step{
			{Step: 1, Description: "Steam the seasoned chicken with onions.", Duration: "15 mins"},
			{Step: 2, Description: "Cook the groundnut paste with water, stirring until the oil separates.", Duration: "40 mins"},
			{Step: 3, Description: "Combine with the chicken and blended tomatoes and pepper, then simmer.", Duration: "1 hour"},
		},
		Tags: []string{"Soup", "Main Course", "Contains Nuts"},
	}},
}
