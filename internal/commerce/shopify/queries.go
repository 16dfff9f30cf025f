package shopify

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

const (
	opCartCreate      = "CartCreate"
	opCartGet         = "CartGet"
	opCartLinesAdd    = "CartLinesAdd"
	opCartLinesUpdate = "CartLinesUpdate"
	opCartLinesRemove = "CartLinesRemove"
	opProductSearch   = "ProductSearch"
	opProductByHandle = "ProductByHandle"
	opVariantByID     = "VariantByID"
	opCollection      = "CollectionByHandle"
	opLatestArticles  = "LatestArticles"
	opArticleByHandle = "ArticleByHandle"
	opBlogByHandle    = "BlogByHandle"
)

const maxCartLines = 100

const imageFields = `url altText`

const variantFragment = `
fragment VariantFields on ProductVariant {
  id
  title
  availableForSale
  quantityAvailable
  price { amount currencyCode }
  selectedOptions { name value }
  image { ` + imageFields + ` }
  product { id title handle featuredImage { ` + imageFields + ` } }
}
`

const productFragment = `
fragment ProductFields on Product {
  id
  title
  handle
  description
  tags
  featuredImage { ` + imageFields + ` }
  priceRange {
    minVariantPrice { amount currencyCode }
    maxVariantPrice { amount currencyCode }
  }
  variants(first: 50) {
    edges {
      node {
        id
        title
        availableForSale
        quantityAvailable
        price { amount currencyCode }
        selectedOptions { name value }
        image { ` + imageFields + ` }
      }
    }
  }
}
`

var cartFragment = fmt.Sprintf(`
fragment CartFields on Cart {
  id
  checkoutUrl
  totalQuantity
  cost {
    subtotalAmount { amount currencyCode }
    totalAmount { amount currencyCode }
    totalTaxAmount { amount currencyCode }
  }
  lines(first: %d) {
    edges {
      node {
        id
        quantity
        cost { totalAmount { amount currencyCode } }
        merchandise { ...VariantFields }
      }
    }
  }
}
`, maxCartLines) + variantFragment

const articleFragment = `
fragment ArticleFields on Article {
  id
  handle
  title
  excerpt
  contentHtml
  tags
  publishedAt
  image { ` + imageFields + ` }
  blog { handle }
}
`

const userErrorFields = `userErrors { field message }`

var documents = map[string]string{
	opCartCreate: `
mutation CartCreate($lines: [CartLineInput!]) {
  cartCreate(input: { lines: $lines }) {
    cart { ...CartFields }
    ` + userErrorFields + `
  }
}
` + cartFragment,

	opCartGet: `
query CartGet($id: ID!) {
  cart(id: $id) { ...CartFields }
}
` + cartFragment,

	opCartLinesAdd: `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart { ...CartFields }
    ` + userErrorFields + `
  }
}
` + cartFragment,

	opCartLinesUpdate: `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart { ...CartFields }
    ` + userErrorFields + `
  }
}
` + cartFragment,

	opCartLinesRemove: `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart { ...CartFields }
    ` + userErrorFields + `
  }
}
` + cartFragment,

	opProductSearch: `
query ProductSearch($query: String!, $first: Int!) {
  products(first: $first, query: $query) {
    edges { node { ...ProductFields } }
  }
}
` + productFragment,

	opProductByHandle: `
query ProductByHandle($handle: String!) {
  product(handle: $handle) { ...ProductFields }
}
` + productFragment,

	opVariantByID: `
query VariantByID($id: ID!) {
  node(id: $id) { ...VariantFields }
}
` + variantFragment,

	opCollection: `
query CollectionByHandle($handle: String!, $first: Int!) {
  collection(handle: $handle) {
    handle
    title
    description
    products(first: $first) {
      edges { node { ...ProductFields } }
    }
  }
}
` + productFragment,

	opLatestArticles: `
query LatestArticles($first: Int!) {
  articles(first: $first, sortKey: PUBLISHED_AT, reverse: true) {
    edges { node { ...ArticleFields } }
  }
}
` + articleFragment,

	opArticleByHandle: `
query ArticleByHandle($blog: String!, $handle: String!) {
  blog(handle: $blog) {
    articleByHandle(handle: $handle) { ...ArticleFields }
  }
}
` + articleFragment,

	opBlogByHandle: `
query BlogByHandle($handle: String!, $first: Int!) {
  blog(handle: $handle) {
    handle
    title
    articles(first: $first, sortKey: PUBLISHED_AT, reverse: true) {
      edges { node { ...ArticleFields } }
    }
  }
}
` + articleFragment,
}

// validateDocuments parses every document so a typo fails at startup instead of on the first request.
func validateDocuments() error {
	for name, doc := range documents {
		parsed, err := parser.ParseQuery(&ast.Source{Name: name, Input: doc})
		if err != nil {
			return fmt.Errorf("parse graphql document %s: %w", name, err)
		}
		if parsed.Operations.ForName(name) == nil {
			return fmt.Errorf("graphql document %s does not declare operation %s", name, name)
		}
	}
	return nil
}
