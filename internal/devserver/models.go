package devserver

import "time"

// The dev server persists the same Spanish snake_case schema the production
// backend exposes, so responses can be serialized straight from the models.

// Usuario is an account row.
type Usuario struct {
	IDUsuario          int64      `gorm:"primaryKey;autoIncrement;column:id_usuario" json:"id_usuario"`
	Correo             string     `gorm:"uniqueIndex;not null;column:correo" json:"correo"`
	Contrasena         string     `gorm:"not null;column:contrasena" json:"-"`
	NombreCompleto     string     `gorm:"column:nombre_completo" json:"nombre_completo"`
	FechaCreacion      time.Time  `gorm:"column:fecha_creacion" json:"fecha_creacion"`
	UltimoInicioSesion *time.Time `gorm:"column:ultimo_inicio_sesion" json:"ultimo_inicio_sesion,omitempty"`
	TokenRecuperacion  string     `gorm:"column:token_recuperacion" json:"-"`
}

func (Usuario) TableName() string { return "usuarios" }

// ConfiguracionUsuario is the one-to-one settings row, created lazily with
// defaults the first time it is read.
type ConfiguracionUsuario struct {
	IDUsuario            int64  `gorm:"primaryKey;column:id_usuario" json:"id_usuario"`
	NotificacionesEmail  bool   `gorm:"column:notificaciones_email" json:"notificaciones_email"`
	NotificacionesPush   bool   `gorm:"column:notificaciones_push" json:"notificaciones_push"`
	MonedaPredeterminada string `gorm:"column:moneda_predeterminada" json:"moneda_predeterminada"`
	UnidadMedida         string `gorm:"column:unidad_medida" json:"unidad_medida"`
	Tema                 string `gorm:"column:tema" json:"tema"`
	Idioma               string `gorm:"column:idioma" json:"idioma"`
}

func (ConfiguracionUsuario) TableName() string { return "configuracion_usuario" }

// Marca is a vehicle brand in the shared taxonomy.
type Marca struct {
	IDMarca int64  `gorm:"primaryKey;autoIncrement;column:id_marca" json:"id_marca"`
	Nombre  string `gorm:"uniqueIndex;not null;column:nombre" json:"nombre"`
}

func (Marca) TableName() string { return "marcas" }

// Modelo is a model under a brand.
type Modelo struct {
	IDModelo int64  `gorm:"primaryKey;autoIncrement;column:id_modelo" json:"id_modelo"`
	IDMarca  int64  `gorm:"not null;index;column:id_marca" json:"id_marca"`
	Nombre   string `gorm:"not null;column:nombre" json:"nombre"`
}

func (Modelo) TableName() string { return "modelos" }

// Vehiculo is a registered vehicle. Plain dates (fecha_compra and the two
// maintenance markers) are stored as the "2006-01-02" strings the wire uses.
type Vehiculo struct {
	IDVehiculo           int64     `gorm:"primaryKey;autoIncrement;column:id_vehiculo" json:"id_vehiculo"`
	IDUsuario            int64     `gorm:"not null;index;column:id_usuario" json:"id_usuario"`
	IDMarca              int64     `gorm:"not null;column:id_marca" json:"-"`
	IDModelo             int64     `gorm:"not null;column:id_modelo" json:"-"`
	Anio                 int       `gorm:"column:anio" json:"anio"`
	Placa                string    `gorm:"column:placa" json:"placa"`
	KilometrajeActual    int64     `gorm:"column:kilometraje_actual" json:"kilometraje_actual"`
	TipoCombustible      string    `gorm:"column:tipo_combustible" json:"tipo_combustible,omitempty"`
	Color                string    `gorm:"column:color" json:"color,omitempty"`
	NumeroVin            string    `gorm:"column:numero_vin" json:"numero_vin,omitempty"`
	FechaCompra          string    `gorm:"column:fecha_compra" json:"fecha_compra,omitempty"`
	Activo               bool      `gorm:"column:activo;default:true" json:"activo"`
	UltimoMantenimiento  string    `gorm:"column:ultimo_mantenimiento" json:"ultimo_mantenimiento,omitempty"`
	ProximoMantenimiento string    `gorm:"column:proximo_mantenimiento" json:"proximo_mantenimiento,omitempty"`
	FechaCreacion        time.Time `gorm:"column:fecha_creacion" json:"fecha_creacion"`
	FechaActualizacion   time.Time `gorm:"column:fecha_actualizacion" json:"fecha_actualizacion"`
}

func (Vehiculo) TableName() string { return "vehiculos" }

// Mantenimiento is a service record. Fotos holds the JSON-encoded string
// exactly as received; the server never interprets it.
type Mantenimiento struct {
	IDMantenimiento    int64     `gorm:"primaryKey;autoIncrement;column:id_mantenimiento" json:"id_mantenimiento"`
	IDVehiculo         int64     `gorm:"not null;index;column:id_vehiculo" json:"id_vehiculo"`
	Tipo               string    `gorm:"column:tipo" json:"tipo"`
	Fecha              string    `gorm:"column:fecha" json:"fecha"`
	Hora               string    `gorm:"column:hora" json:"hora"`
	Kilometraje        int64     `gorm:"column:kilometraje" json:"kilometraje"`
	Costo              float64   `gorm:"column:costo" json:"costo"`
	Lugar              string    `gorm:"column:lugar" json:"lugar,omitempty"`
	Notas              string    `gorm:"column:notas" json:"notas,omitempty"`
	Fotos              string    `gorm:"column:fotos" json:"fotos"`
	Estado             string    `gorm:"column:estado" json:"estado"`
	FechaCreacion      time.Time `gorm:"column:fecha_creacion" json:"fecha_creacion"`
	FechaActualizacion time.Time `gorm:"column:fecha_actualizacion" json:"fecha_actualizacion"`
}

func (Mantenimiento) TableName() string { return "mantenimientos" }

// vehiculoResponse joins the taxonomy names into the vehicle payload the
// wire contract promises (marca/modelo as names, not ids).
type vehiculoResponse struct {
	Vehiculo
	Marca  string `json:"marca"`
	Modelo string `json:"modelo"`
}
