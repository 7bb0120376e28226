package services

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/shopkeeper/internal/llm"
)

const descriptionSystemPrompt = "You are an e-commerce expert and a persuasive copywriter."

func descriptionPrompt(name string, keywords []string) llm.Prompt {
	user := fmt.Sprintf(`You are an expert e-commerce copywriter. Write an appealing, persuasive description for this product:

Product name: %s
Key features: %s

The description must:
- be 10 to 25 words long
- highlight benefits, not only technical features
- end with a subtle call to action
- be clear and professional

Reply with the description only, without a title or labels.`, name, strings.Join(keywords, ", "))

	return llm.Prompt{System: descriptionSystemPrompt, User: user, MaxTokens: 500, Temperature: 0.7}
}

// CategorySeparator joins the levels of a category path.
const CategorySeparator = ">"

func categoryPrompt(productName, description string) llm.Prompt {
	user := fmt.Sprintf(`You are an expert in e-commerce product classification. Classify this product into a hierarchical category.

Product name: %s
Description: %s

Answer with one category path whose levels are separated by " > ".
Required format: "Main category > Subcategory > Specific category"

Examples:
- "Electronics > Audio > Headphones"
- "Clothing > Men > T-Shirts"
- "Home > Kitchen > Utensils"

Available main categories: Electronics, Clothing, Home, Sports, Health & Beauty, Toys, Books, Food, Pets, Automotive.

Reply with the category only, without explanations.`, productName, description)

	return llm.Prompt{User: user, MaxTokens: 500, Temperature: 0.7}
}
