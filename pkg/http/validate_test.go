package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickerParam struct {
	Ticker string `param:"ticker" validate:"required,ticker"`
}

func bindTicker(value string) interface{} {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/stocks/"+value, nil), httptest.NewRecorder())
	c.SetPath("/api/stocks/:ticker")
	c.SetParamNames("ticker")
	c.SetParamValues(value)
	return ReadAndValidateRequest(c, &tickerParam{})
}

func TestReadAndValidateAcceptsSymbols(t *testing.T) {
	for _, v := range []string{"AAPL", "brk.b", "BF-B", "V"} {
		assert.Nil(t, bindTicker(v), v)
	}
}

func TestReadAndValidateRejectsMalformedSymbol(t *testing.T) {
	res := bindTicker("1BAD")
	errs, ok := res.([]ValidationError)
	require.True(t, ok, "got %T", res)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_TICKER", errs[0].Code)
	assert.Equal(t, "ticker", errs[0].Field)
	assert.Equal(t, "1BAD", errs[0].Params["value"])

	errs = bindTicker("WAYTOOLONGTICKER").([]ValidationError)
	assert.Equal(t, "ERR_TICKER", errs[0].Code)
}
