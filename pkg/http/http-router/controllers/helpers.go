package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/osm-featuremap/pkg"
	"go.uber.org/zap"
)

type envelope map[string]any

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type responder struct {
	log      *zap.Logger
	validate *validator.Validate
	trans    ut.Translator
}

func newResponder(log *zap.Logger) responder {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	return responder{log: log, validate: validate, trans: trans}
}

// writeJSON marshals data structure to encoded JSON response.
func (api responder) writeJSON(w http.ResponseWriter, status int, data envelope,
	headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	js = append(js, '\n')
	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		api.log.Error("failed to write JSON response", zap.Error(err))
		return err
	}

	return nil
}

// readJSON decodes the body into dst and validates it.
func (api responder) readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := api.validate.Struct(dst); err != nil {
		var vv []string
		for _, e := range translateError(err, api.trans) {
			vv = append(vv, e.Error())
		}
		return fmt.Errorf("validation error: %v", vv)
	}
	return nil
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

func (api responder) errorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var res errorResponse
	res.Error.Code = code
	res.Error.Message = message
	if err := api.writeJSON(w, status, envelope{"error": res.Error}, nil); err != nil {
		api.log.Error("failed to write error response", zap.String("path", r.URL.Path), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api responder) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, "bad_request", err.Error())
}

func (api responder) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, "not_found", err.Error())
}

func (api responder) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	api.errorResponse(w, r, http.StatusInternalServerError, "internal_server_error", pkg.MessageInternalServerError)
}

// serviceErrorResponse answers with the status of the error code err was wrapped with.
func (api responder) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch pkg.ErrorCode(err) {
	case pkg.ErrBadParamInput:
		api.BadRequestResponse(w, r, err)
	case pkg.ErrNotFound, pkg.ErrMapNotFound:
		api.NotFoundResponse(w, r, err)
	default:
		api.ServerErrorResponse(w, r, err)
	}
}

func acceptsZstd(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "zstd") {
			return true
		}
	}
	return false
}
