package model

import "time"

// BusinessType 业务类型
type BusinessType string

const (
	BusinessRestaurant   BusinessType = "restaurant"
	BusinessOnlineSeller BusinessType = "online_seller"
	BusinessRetail       BusinessType = "retail"
	BusinessConstruction BusinessType = "construction"
	BusinessOther        BusinessType = "other"
)

// Valid 是否为已知业务类型
func (b BusinessType) Valid() bool {
	switch b {
	case BusinessRestaurant, BusinessOnlineSeller, BusinessRetail, BusinessConstruction, BusinessOther:
		return true
	}
	return false
}

// Dataset 一次上传的数据集
type Dataset struct {
	ID           string       `json:"id"`
	BusinessType BusinessType `json:"businessType"`
	FileName     string       `json:"fileName"`
	Table        *Table       `json:"data"`
	Mapping      Mapping      `json:"mappedColumns"`
	HealthScore  int          `json:"healthScore"`
	IsClean      bool         `json:"isClean"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// DatasetSummary 列表用的数据集摘要（不含数据）
type DatasetSummary struct {
	ID           string       `json:"id"`
	BusinessType BusinessType `json:"businessType"`
	FileName     string       `json:"fileName"`
	RowCount     int          `json:"rowCount"`
	HealthScore  int          `json:"healthScore"`
	IsClean      bool         `json:"isClean"`
	CreatedAt    time.Time    `json:"createdAt"`
}
