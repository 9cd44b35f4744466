package handler

import (
	"context"
	"net/http"
	"testing"

	appclient "github.com/atelier/backend/internal/application/client"
	"github.com/atelier/backend/internal/domain/catalog"
	domainclient "github.com/atelier/backend/internal/domain/client"
	"github.com/atelier/backend/internal/domain/company"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupConsumptionRouter(gw appclient.Gateway, co *company.Company) (*gin.Engine, *appclient.Repository) {
	gin.SetMode(gin.TestMode)
	repo := appclient.NewRepository(gw, co, zap.NewNop())
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewConsumptionHandler(repo, co, zap.NewNop()).RegisterRoutes(api)
	return engine, repo
}

func TestConsumeProduct(t *testing.T) {
	t.Run("links a held client with the captured price", func(t *testing.T) {
		co := company.New()
		shampoo, err := catalog.NewProduct("Shampoo", decimal.NewFromInt(30))
		require.NoError(t, err)
		co.AddProduct(shampoo)

		held, err := domainclient.NewClient("Ana", "", valueobject.NewCPF(""), domainclient.GenderFeminine)
		require.NoError(t, err)
		held.SetRemoteID(1)
		engine, repo := setupConsumptionRouter(&stubGateway{listed: []*domainclient.Client{held}}, co)
		require.NoError(t, repo.Refresh(context.Background()))

		w := performJSON(t, engine, http.MethodPost,
			"/api/v1/clients/"+held.ID.String()+"/consumptions/products",
			ConsumptionRequest{ItemID: shampoo.ID.String()})

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		consumed := data["consumed_products"].([]interface{})
		require.Len(t, consumed, 1)
		link := consumed[0].(map[string]interface{})
		assert.Equal(t, shampoo.ID.String(), link["item_id"])
		assert.Equal(t, "30", link["price"])
	})

	t.Run("links a locally saved client through the aggregate", func(t *testing.T) {
		co := company.New()
		shampoo, err := catalog.NewProduct("Shampoo", decimal.NewFromInt(30))
		require.NoError(t, err)
		co.AddProduct(shampoo)

		local, err := domainclient.NewClient("Bia", "", valueobject.NewCPF(""), domainclient.GenderFeminine)
		require.NoError(t, err)
		co.AddClient(local)
		engine, _ := setupConsumptionRouter(&stubGateway{down: true}, co)

		w := performJSON(t, engine, http.MethodPost,
			"/api/v1/clients/"+local.ID.String()+"/consumptions/products",
			ConsumptionRequest{ItemID: shampoo.ID.String()})

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, co.Snapshot().Clients[0].ConsumedProducts, 1)
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		co := company.New()
		local, err := domainclient.NewClient("Bia", "", valueobject.NewCPF(""), domainclient.GenderFeminine)
		require.NoError(t, err)
		co.AddClient(local)
		engine, _ := setupConsumptionRouter(&stubGateway{}, co)

		w := performJSON(t, engine, http.MethodPost,
			"/api/v1/clients/"+local.ID.String()+"/consumptions/products",
			ConsumptionRequest{ItemID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown client is 404", func(t *testing.T) {
		co := company.New()
		shampoo, err := catalog.NewProduct("Shampoo", decimal.NewFromInt(30))
		require.NoError(t, err)
		co.AddProduct(shampoo)
		engine, _ := setupConsumptionRouter(&stubGateway{}, co)

		w := performJSON(t, engine, http.MethodPost,
			"/api/v1/clients/6ba7b810-9dad-11d1-80b4-00c04fd430c8/consumptions/products",
			ConsumptionRequest{ItemID: shampoo.ID.String()})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestConsumeService(t *testing.T) {
	co := company.New()
	cut, err := catalog.NewService("Corte", decimal.NewFromInt(50))
	require.NoError(t, err)
	co.AddService(cut)

	local, err := domainclient.NewClient("Ana", "", valueobject.NewCPF(""), domainclient.GenderFeminine)
	require.NoError(t, err)
	co.AddClient(local)
	engine, _ := setupConsumptionRouter(&stubGateway{}, co)

	w := performJSON(t, engine, http.MethodPost,
		"/api/v1/clients/"+local.ID.String()+"/consumptions/services",
		ConsumptionRequest{ItemID: cut.ID.String()})

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	consumed := data["consumed_services"].([]interface{})
	require.Len(t, consumed, 1)
	assert.Equal(t, "Corte", consumed[0].(map[string]interface{})["name"])
}
