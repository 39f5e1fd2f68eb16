package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/rentloop/rentloop/internal/core/filter"
	"github.com/rentloop/rentloop/internal/core/query"
	"github.com/rentloop/rentloop/internal/pkg/metrics"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	propertyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Property",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.Int},
			"name":             &graphql.Field{Type: graphql.String},
			"description":      &graphql.Field{Type: graphql.String},
			"price_per_month":  &graphql.Field{Type: graphql.Int},
			"security_deposit": &graphql.Field{Type: graphql.Int},
			"beds":             &graphql.Field{Type: graphql.Int},
			"baths":            &graphql.Field{Type: graphql.Float},
			"square_feet":      &graphql.Field{Type: graphql.Int},
			"property_type":    &graphql.Field{Type: graphql.String},
			"location":         &graphql.Field{Type: geoPointType},
			"address":          &graphql.Field{Type: graphql.String},
			"city":             &graphql.Field{Type: graphql.String},
		},
	})

	leaseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Lease",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"property_id": &graphql.Field{Type: graphql.Int},
			"tenant_id":   &graphql.Field{Type: graphql.String},
			"rent":        &graphql.Field{Type: graphql.Int},
			"deposit":     &graphql.Field{Type: graphql.Int},
		},
	})

	// stringArg pulls an optional string arg into a param map slot so
	// the GraphQL surface decodes exactly like the REST one.
	stringArg := func(args map[string]interface{}, params map[string]string, key string) {
		if v, ok := args[key].(string); ok {
			params[key] = v
		}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"properties": &graphql.Field{
				Type:        graphql.NewList(propertyType),
				Description: "Search listings with the standard filter parameters",
				Args: graphql.FieldConfigArgument{
					"location":     &graphql.ArgumentConfig{Type: graphql.String},
					"coordinates":  &graphql.ArgumentConfig{Type: graphql.String},
					"priceRange":   &graphql.ArgumentConfig{Type: graphql.String},
					"squareFeet":   &graphql.ArgumentConfig{Type: graphql.String},
					"beds":         &graphql.ArgumentConfig{Type: graphql.String},
					"baths":        &graphql.ArgumentConfig{Type: graphql.String},
					"propertyType": &graphql.ArgumentConfig{Type: graphql.String},
					"favoriteIds":  &graphql.ArgumentConfig{Type: graphql.String},
					"limit":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
					"offset":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					params := map[string]string{}
					for _, key := range []string{
						filter.KeyLocation, filter.KeyCoordinates, filter.KeyPriceRange,
						filter.KeySquareFeet, filter.KeyBeds, filter.KeyBaths,
						filter.KeyPropertyType, filter.KeyFavoriteIDs,
					} {
						stringArg(p.Args, params, key)
					}
					state := filter.Decode(params)
					opts := query.Options{Favorites: filter.DecodeFavorites(params)}
					limit := p.Args["limit"].(int)
					offset := p.Args["offset"].(int)
					metrics.SearchesTotal.WithLabelValues("graphql").Inc()
					return deps.Properties.Search(p.Context, state, opts, limit, offset)
				},
			},
			"property": &graphql.Field{
				Type:        propertyType,
				Description: "Get a listing by id",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Properties.GetByID(p.Context, p.Args["id"].(int))
				},
			},
			"propertyLeases": &graphql.Field{
				Type:        graphql.NewList(leaseType),
				Description: "List leases on a listing",
				Args: graphql.FieldConfigArgument{
					"property_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Leases.ListByProperty(p.Context, p.Args["property_id"].(int))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
