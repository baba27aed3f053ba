package model

// The four raw Rebrickable reference tables. Column names are a fixed
// contract with the upstream CSV exports — keep them stable.

// InventoryPart is one raw inventory row: a (part, color) combination that
// appears Quantity times in the catalog. Not unit-level.
type InventoryPart struct {
	ID       uint    `gorm:"primaryKey"`
	PartNum  string  `gorm:"column:part_num;index;not null"`
	ColorID  int     `gorm:"column:color_id;index;not null"`
	Quantity int     `gorm:"column:quantity;not null"`
	ImgURL   *string `gorm:"column:img_url"`
}

func (InventoryPart) TableName() string { return "inventory_parts" }

// Part holds the descriptive attributes of a single part number.
type Part struct {
	PartNum   string `gorm:"column:part_num;primaryKey"`
	Name      string `gorm:"column:name;not null"`
	PartCatID int    `gorm:"column:part_cat_id;index;not null"`
}

func (Part) TableName() string { return "parts" }

// PartCategory names a part category (e.g. "Bricks", "Minifig Heads").
type PartCategory struct {
	ID   int    `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;not null"`
}

func (PartCategory) TableName() string { return "part_categories" }

// Color maps a color id to its name and hex code.
// RGB is a 6-hex-digit string without a leading '#'.
type Color struct {
	ID   int    `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;not null"`
	RGB  string `gorm:"column:rgb;not null"`
}

func (Color) TableName() string { return "colors" }
