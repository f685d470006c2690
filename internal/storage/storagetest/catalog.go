// Package storagetest provides a small fixed catalog for tests.
package storagetest

import "github.com/xaenox/foodie-bot/internal/models"

// LongDescription is longer than the default description limit.
const LongDescription = "A generous bowl of tri-color quinoa tossed with roasted sweet potato, " +
	"baby kale, cherry tomatoes, cucumber ribbons, toasted pumpkin seeds and a bright " +
	"lemon-tahini dressing that ties every crunchy, creamy bite together."

// Catalog returns a fresh copy of the fixture catalog. Popularity scores are
// distinct except FF013 and FF018, which tie.
func Catalog() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: "FF001", Name: "Classic Smash Burger", Category: "Classic Burgers", Description: "Two smashed beef patties with American cheese and pickles.", Ingredients: []string{"beef", "cheese", "pickles", "bun"}, Price: 8.99, Calories: 720, PrepTime: "8-10 mins", MoodTags: []string{"comfort"}, Allergens: []string{"dairy", "gluten"}, PopularityScore: 95, SpiceLevel: 1, ImagePrompt: "smash burger"},
		{ID: "FF002", Name: "Double Bacon Burger", Category: "Classic Burgers", Description: "Beef, crispy bacon and smoky sauce.", Ingredients: []string{"beef", "bacon", "bun"}, Price: 11.49, Calories: 980, PrepTime: "10-12 mins", MoodTags: []string{"indulgent"}, Allergens: []string{"gluten"}, PopularityScore: 88, SpiceLevel: 2, ImagePrompt: "bacon burger"},
		{ID: "FF003", Name: "Black Bean Burger", Category: "Vegetarian Burgers", Description: "House black bean patty with chipotle mayo.", Ingredients: []string{"black beans", "chipotle", "bun"}, Price: 9.49, Calories: 610, PrepTime: "8-10 mins", DietaryTags: []string{"vegetarian"}, MoodTags: []string{"healthy"}, Allergens: []string{"egg", "gluten"}, PopularityScore: 80, SpiceLevel: 3, ImagePrompt: "black bean burger"},
		{ID: "FF004", Name: "Beyond Garden Burger", Category: "Vegetarian Burgers", Description: "Plant-based patty, lettuce and tomato.", Ingredients: []string{"plant patty", "lettuce", "tomato"}, Price: 10.99, Calories: 540, PrepTime: "8-10 mins", DietaryTags: []string{"vegan", "vegetarian"}, MoodTags: []string{"healthy"}, Allergens: []string{"soy", "gluten"}, PopularityScore: 72, SpiceLevel: 0, ImagePrompt: "garden burger"},
		{ID: "FF005", Name: "Korean BBQ Fusion Burger", Category: "Fusion Burgers", Description: "Gochujang glazed beef with kimchi slaw.", Ingredients: []string{"beef", "gochujang", "kimchi"}, Price: 12.99, Calories: 850, PrepTime: "12-15 mins", MoodTags: []string{"adventurous"}, Allergens: []string{"soy", "gluten"}, PopularityScore: 85, ChefSpecial: true, SpiceLevel: 6, ImagePrompt: "korean burger"},
		{ID: "FF006", Name: "Margherita Pizza", Category: "Traditional Pizza", Description: "San Marzano tomato, mozzarella and basil.", Ingredients: []string{"tomato", "mozzarella", "basil"}, Price: 10.00, Calories: 900, PrepTime: "12-15 mins", DietaryTags: []string{"vegetarian"}, MoodTags: []string{"classic"}, Allergens: []string{"dairy", "gluten"}, PopularityScore: 90, SpiceLevel: 0, ImagePrompt: "margherita"},
		{ID: "FF007", Name: "Diavola Pizza", Category: "Gourmet Pizza", Description: "Hot salami, chili oil and fior di latte.", Ingredients: []string{"salami", "chili", "mozzarella"}, Price: 14.50, Calories: 1100, PrepTime: "12-15 mins", MoodTags: []string{"bold"}, Allergens: []string{"dairy", "gluten"}, PopularityScore: 77, SpiceLevel: 7, ImagePrompt: "diavola"},
		{ID: "FF008", Name: "Spicy Korean Fried Cauliflower", Category: "Limited Time Specials", Description: "Crispy cauliflower tossed in gochujang glaze with sesame.", Ingredients: []string{"cauliflower", "gochujang", "sesame"}, Price: 7.99, Calories: 480, PrepTime: "6-8 mins", DietaryTags: []string{"vegan", "vegetarian"}, MoodTags: []string{"adventurous", "spicy"}, Allergens: []string{"sesame", "soy"}, PopularityScore: 93, LimitedTime: true, SpiceLevel: 8, ImagePrompt: "cauliflower"},
		{ID: "FF009", Name: "Baja Fish Taco", Category: "Tacos & Wraps", Description: "Beer battered cod, cabbage and lime crema.", Ingredients: []string{"cod", "cabbage", "tortilla"}, Price: 6.49, Calories: 430, PrepTime: "6-8 mins", MoodTags: []string{"fresh"}, Allergens: []string{"fish", "dairy"}, PopularityScore: 70, SpiceLevel: 4, ImagePrompt: "fish taco"},
		{ID: "FF010", Name: "Inferno Chicken Wrap", Category: "Tacos & Wraps", Description: "Ghost pepper chicken with cooling ranch.", Ingredients: []string{"chicken", "ghost pepper", "tortilla"}, Price: 8.49, Calories: 690, PrepTime: "6-8 mins", MoodTags: []string{"bold", "spicy"}, Allergens: []string{"dairy", "gluten"}, PopularityScore: 82, SpiceLevel: 9, ImagePrompt: "chicken wrap"},
		{ID: "FF011", Name: "Falafel Veggie Wrap", Category: "Tacos & Wraps", Description: "Falafel, hummus and pickled onions.", Ingredients: []string{"falafel", "hummus", "tortilla"}, Price: 7.49, Calories: 560, PrepTime: "6-8 mins", DietaryTags: []string{"vegan", "vegetarian"}, MoodTags: []string{"healthy"}, Allergens: []string{"sesame", "gluten"}, PopularityScore: 74, SpiceLevel: 5, ImagePrompt: "falafel wrap"},
		{ID: "FF012", Name: "Quinoa Power Salad", Category: "Salads & Healthy Options", Description: LongDescription, Ingredients: []string{"quinoa", "kale", "sweet potato"}, Price: 9.99, Calories: 510, PrepTime: "5 mins", DietaryTags: []string{"vegan", "vegetarian", "gluten-free"}, MoodTags: []string{"healthy", "light"}, Allergens: []string{"sesame"}, PopularityScore: 65, SpiceLevel: 0, ImagePrompt: "quinoa salad"},
		{ID: "FF013", Name: "Loaded Fries", Category: "Sides & Appetizers", Description: "Fries with cheese sauce and scallions.", Ingredients: []string{"potato", "cheese", "scallion"}, Price: 4.99, Calories: 650, PrepTime: "5 mins", DietaryTags: []string{"vegetarian"}, MoodTags: []string{"comfort"}, Allergens: []string{"dairy"}, PopularityScore: 86, SpiceLevel: 2, ImagePrompt: "fries"},
		{ID: "FF014", Name: "Chocolate Lava Cake", Category: "Dessert", Description: "Warm cake with a molten center.", Ingredients: []string{"chocolate", "butter", "flour"}, Price: 5.99, Calories: 520, PrepTime: "10 mins", DietaryTags: []string{"vegetarian"}, MoodTags: []string{"indulgent"}, Allergens: []string{"dairy", "egg", "gluten"}, PopularityScore: 79, ChefSpecial: true, SpiceLevel: 0, ImagePrompt: "lava cake"},
		{ID: "FF015", Name: "Mango Chili Cooler", Category: "Specialty Drink", Description: "Mango puree, lime and a chili salt rim.", Ingredients: []string{"mango", "lime", "chili"}, Price: 3.99, Calories: 180, PrepTime: "3 mins", DietaryTags: []string{"vegan"}, MoodTags: []string{"refreshing"}, PopularityScore: 60, SpiceLevel: 3, ImagePrompt: "mango drink"},
		{ID: "FF016", Name: "Chickpea Curry Bowl", Category: "Bowl", Description: "Slow simmered chickpea curry over basmati rice.", Ingredients: []string{"chickpeas", "coconut milk", "rice"}, Price: 9.50, Calories: 640, PrepTime: "8 mins", DietaryTags: []string{"vegan", "vegetarian"}, MoodTags: []string{"comfort"}, PopularityScore: 68, SpiceLevel: 6, ImagePrompt: "curry bowl"},
		{ID: "FF017", Name: "Butter Chicken Curry Bowl", Category: "Bowl", Description: "Tandoori chicken in tomato butter sauce.", Ingredients: []string{"chicken", "butter", "rice"}, Price: 10.50, Calories: 820, PrepTime: "8 mins", MoodTags: []string{"comfort"}, Allergens: []string{"dairy"}, PopularityScore: 66, SpiceLevel: 4, ImagePrompt: "butter chicken"},
		{ID: "FF018", Name: "Jalapeno Poppers", Category: "Sides & Appetizers", Description: "Cream cheese stuffed jalapenos, breaded and fried.", Ingredients: []string{"jalapeno", "cream cheese"}, Price: 5.49, Calories: 420, PrepTime: "6 mins", DietaryTags: []string{"vegetarian"}, MoodTags: []string{"spicy"}, Allergens: []string{"dairy", "gluten"}, PopularityScore: 86, SpiceLevel: 6, ImagePrompt: "poppers"},
	}
}
