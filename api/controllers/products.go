package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/feiralivre/feiralivre-backend/api/forms"
	"github.com/feiralivre/feiralivre-backend/api/middleware"
	"github.com/feiralivre/feiralivre-backend/api/views"
	product "github.com/feiralivre/feiralivre-backend/internal/products"
	"github.com/feiralivre/feiralivre-backend/pkg/auth/session"
	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	pkgerrors "github.com/feiralivre/feiralivre-backend/pkg/errors"
)

// ProductsList shows the vendor's own products, available or not.
func ProductsList(b *Base, svc product.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := middleware.VendorFromContext(r.Context())

		items, err := svc.List(r.Context(), current.ID)
		if err != nil {
			b.renderError(w, r, err)
			return
		}
		b.render(w, r, http.StatusOK, "products_list", views.Data{Title: "Meus produtos", Content: items})
	}
}

// ProductNewPage shows an empty product form.
func ProductNewPage(b *Base) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.render(w, r, http.StatusOK, "product_form", views.Data{
			Title:   "Cadastrar produto",
			Form:    forms.Product{Available: true},
			Content: createFormPage,
		})
	}
}

// ProductCreate stores a new product with its images.
func ProductCreate(b *Base, svc product.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "formulário inválido", http.StatusBadRequest)
			return
		}

		form, fieldErrs := forms.ParseProduct(r)
		if fieldErrs != nil {
			b.render(w, r, http.StatusUnprocessableEntity, "product_form", views.Data{
				Title: "Cadastrar produto", Form: form, Errors: fieldErrs, Content: createFormPage,
			})
			return
		}

		imageKey, err := b.saveUpload(r, "image", "products")
		var galleryKeys []string
		if err == nil {
			galleryKeys, err = b.saveUploads(r, "gallery", "products")
		}
		if err != nil {
			b.uploadFailed(w, r, err, form, "Cadastrar produto", createFormPage)
			return
		}

		current := middleware.VendorFromContext(r.Context())
		_, err = svc.Create(r.Context(), current.ID, product.CreateInput{
			Name:        form.Name,
			Price:       form.Price,
			Description: form.Description,
			Available:   form.Available,
			ImageKey:    imageKey,
			GalleryKeys: galleryKeys,
		})
		if err != nil {
			b.renderError(w, r, err)
			return
		}

		b.flash(w, r, session.FlashSuccess, msgProductCreated)
		http.Redirect(w, r, "/produtos/", http.StatusSeeOther)
	}
}

// ProductEditPage shows the form prefilled from the stored product. A product
// belonging to another vendor is indistinguishable from a missing one.
func ProductEditPage(b *Base, svc product.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		current := middleware.VendorFromContext(r.Context())
		item, err := svc.Get(r.Context(), current.ID, id)
		if err != nil {
			b.notFoundOrError(w, r, err)
			return
		}

		b.render(w, r, http.StatusOK, "product_form", views.Data{
			Title:   "Editar produto",
			Form:    productForm(item),
			Content: editFormPage(item.ID),
		})
	}
}

// ProductUpdate applies the posted changes to one of the vendor's products.
func ProductUpdate(b *Base, svc product.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "formulário inválido", http.StatusBadRequest)
			return
		}

		form, fieldErrs := forms.ParseProduct(r)
		if fieldErrs != nil {
			b.render(w, r, http.StatusUnprocessableEntity, "product_form", views.Data{
				Title: "Editar produto", Form: form, Errors: fieldErrs, Content: editFormPage(id),
			})
			return
		}

		// Edit replaces the primary image only. Gallery rows are fixed at
		// creation time, so the edit form carries no gallery field and any
		// stray gallery part is ignored without touching storage.
		imageKey, err := b.saveUpload(r, "image", "products")
		if err != nil {
			b.uploadFailed(w, r, err, form, "Editar produto", editFormPage(id))
			return
		}

		current := middleware.VendorFromContext(r.Context())
		_, err = svc.Update(r.Context(), current.ID, id, product.UpdateInput{
			Name:        form.Name,
			Price:       form.Price,
			Description: form.Description,
			Available:   form.Available,
			ImageKey:    imageKey,
		})
		if err != nil {
			b.notFoundOrError(w, r, err)
			return
		}

		b.flash(w, r, session.FlashSuccess, msgProductUpdated)
		http.Redirect(w, r, "/produtos/", http.StatusSeeOther)
	}
}

// ProductDelete removes a product and its gallery.
func ProductDelete(b *Base, svc product.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		current := middleware.VendorFromContext(r.Context())
		if err := svc.Delete(r.Context(), current.ID, id); err != nil {
			b.notFoundOrError(w, r, err)
			return
		}

		b.flash(w, r, session.FlashSuccess, msgProductDeleted)
		http.Redirect(w, r, "/produtos/", http.StatusSeeOther)
	}
}

// productFormPage feeds the shared create/edit form template. Only the
// create form offers gallery uploads; gallery rows exist from creation on.
type productFormPage struct {
	Action      string
	WithGallery bool
}

var createFormPage = productFormPage{Action: "/produtos/novo/", WithGallery: true}

func editFormPage(id uint) productFormPage {
	return productFormPage{Action: editAction(id)}
}

// uploadFailed renders the form back with a storage-failure notice.
func (b *Base) uploadFailed(w http.ResponseWriter, r *http.Request, err error, form forms.Product, title string, page productFormPage) {
	b.Logg.Error(r.Context(), "uploading product images", err)
	r = b.flash(w, r, session.FlashError, msgUploadFailed)
	b.render(w, r, http.StatusUnprocessableEntity, "product_form", views.Data{Title: title, Form: form, Content: page})
}

func (b *Base) notFoundOrError(w http.ResponseWriter, r *http.Request, err error) {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
		http.NotFound(w, r)
		return
	}
	b.renderError(w, r, err)
}

func productForm(item *models.Product) forms.Product {
	return forms.Product{
		Name:        item.Name,
		PriceRaw:    strings.ReplaceAll(item.Price.StringFixed(2), ".", ","),
		Description: item.Description,
		Available:   item.Available,
		Price:       item.Price,
	}
}

func editAction(id uint) string {
	return "/produtos/" + strconv.FormatUint(uint64(id), 10) + "/editar/"
}

// urlID parses the {id} route parameter. Ids are BIGSERIAL, so the full
// 64-bit range must round-trip.
func urlID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
