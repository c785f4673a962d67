package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/storelane/storelane/app/services"
	gqlschema "github.com/storelane/storelane/pkg/graphql"
	"github.com/storelane/storelane/pkg/response"
)

// GraphQLController serves a read-only catalogue schema. Mutations stay on
// the REST surface where auth and validation already live.
type GraphQLController struct {
	schema graphql.Schema
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func NewGraphQLController(catalog *services.CatalogService) (*GraphQLController, error) {
	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"price": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, ok := p.Source.(services.ProductView)
					if !ok {
						return nil, fmt.Errorf("unexpected source type %T", p.Source)
					}
					return product.Price.String(), nil
				},
			},
			"imageUrl":      &graphql.Field{Type: graphql.String},
			"stockQuantity": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"categoryId":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"categoryName":  &graphql.Field{Type: graphql.String},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"page":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)
					products, _, err := catalog.AllProducts(page, limit)
					return products, err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					return catalog.ProductByID(uint(id))
				},
			},
			"productsByCategory": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"categoryId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["categoryId"].(int)
					return catalog.ProductsByCategory(uint(id))
				},
			},
			"searchProducts": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"keyword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					keyword, _ := p.Args["keyword"].(string)
					return catalog.SearchProducts(keyword)
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.AllCategories()
				},
			},
		},
	})

	schema, err := gqlschema.NewSchema(query)
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}
	return &GraphQLController{schema: schema}, nil
}

func (c *GraphQLController) Query(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         c.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result) //nolint:errcheck
}
