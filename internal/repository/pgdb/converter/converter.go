package converter

import (
	"encoding/json"

	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/rkhn-textiles/pos-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) *domain.Category
}

// SubcategoryConverter преобразует сущности Subcategory между domain и моделью PostgreSQL.
type SubcategoryConverter interface {
	ToModel(entity *domain.Subcategory) *SubcategoryModel
	ToEntity(model *SubcategoryModel) *domain.Subcategory
}

// SaleConverter преобразует сущности Sale между domain и моделью PostgreSQL.
// Позиции сериализуются в JSON при записи и разбираются при чтении.
type SaleConverter interface {
	ToModel(entity *domain.Sale) (*SaleModel, error)
	ToEntity(model *SaleModel) (*domain.Sale, error)
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConverterImpl struct{}

func (ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	model := &ProductModel{
		ID:         entity.ID,
		Name:       entity.Name,
		SKU:        entity.SKU,
		CategoryID: entity.CategoryID,
		Price:      entity.Price,
		Stock:      entity.Stock,
		Unit:       string(entity.Unit),
		CreatedAt:  entity.CreatedAt,
	}
	if entity.SubcategoryID != "" {
		model.SubcategoryID = &entity.SubcategoryID
	}
	return model
}

func (ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	entity := &domain.Product{
		ID:         model.ID,
		Name:       model.Name,
		SKU:        model.SKU,
		CategoryID: model.CategoryID,
		Price:      model.Price,
		Stock:      model.Stock,
		Unit:       domain.Unit(model.Unit),
		CreatedAt:  model.CreatedAt,
	}
	if model.SubcategoryID != nil {
		entity.SubcategoryID = *model.SubcategoryID
	}
	return entity
}

type CategoryConverterImpl struct{}

func (CategoryConverterImpl) ToModel(entity *domain.Category) *CategoryModel {
	return &CategoryModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		CreatedAt:   entity.CreatedAt,
	}
}

func (CategoryConverterImpl) ToEntity(model *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
	}
}

type SubcategoryConverterImpl struct{}

func (SubcategoryConverterImpl) ToModel(entity *domain.Subcategory) *SubcategoryModel {
	return &SubcategoryModel{
		ID:          entity.ID,
		CategoryID:  entity.CategoryID,
		Name:        entity.Name,
		Description: entity.Description,
		CreatedAt:   entity.CreatedAt,
	}
}

func (SubcategoryConverterImpl) ToEntity(model *SubcategoryModel) *domain.Subcategory {
	return &domain.Subcategory{
		ID:          model.ID,
		CategoryID:  model.CategoryID,
		Name:        model.Name,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
	}
}

type SaleConverterImpl struct{}

func (SaleConverterImpl) ToModel(entity *domain.Sale) (*SaleModel, error) {
	items := make([]saleItemModel, 0, len(entity.Items))
	for i := range entity.Items {
		item := &entity.Items[i]
		items = append(items, saleItemModel{
			ProductID:   item.ProductID,
			Name:        item.Name,
			Unit:        string(item.Unit),
			Quantity:    item.Quantity,
			Price:       item.Price,
			CustomPrice: item.CustomPrice,
		})
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	return &SaleModel{
		ID:            entity.ID,
		Items:         payload,
		CustomerName:  entity.CustomerName,
		CustomerPhone: entity.CustomerPhone,
		Notes:         entity.Notes,
		IsRecurring:   entity.IsRecurring,
		TotalPrice:    entity.TotalPrice,
		Date:          entity.Date,
		IsOnline:      entity.IsOnline,
		Status:        entity.Status,
	}, nil
}

func (SaleConverterImpl) ToEntity(model *SaleModel) (*domain.Sale, error) {
	var items []saleItemModel
	if len(model.Items) > 0 {
		if err := json.Unmarshal(model.Items, &items); err != nil {
			return nil, err
		}
	}

	entity := &domain.Sale{
		ID:            model.ID,
		Items:         make([]domain.SaleItem, 0, len(items)),
		CustomerName:  model.CustomerName,
		CustomerPhone: model.CustomerPhone,
		Notes:         model.Notes,
		IsRecurring:   model.IsRecurring,
		TotalPrice:    model.TotalPrice,
		Date:          model.Date,
		IsOnline:      model.IsOnline,
		Status:        model.Status,
	}

	for i := range items {
		item := &items[i]
		entity.Items = append(entity.Items, domain.SaleItem{
			ProductID:   item.ProductID,
			Name:        item.Name,
			Unit:        domain.Unit(item.Unit),
			Quantity:    item.Quantity,
			Price:       item.Price,
			CustomPrice: item.CustomPrice,
		})
	}

	return entity, nil
}

type OutboxEventConverterImpl struct{}

func (OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		SaleID:      entity.SaleID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		SaleID:      model.SaleID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	entities := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		entities = append(entities, c.ToEntity(model))
	}
	return entities
}
