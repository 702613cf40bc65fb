package database

// UsuariosTable is the table Usuario records are stored in.
const UsuariosTable = "Usuarios"

// Configurations lists every entity configuration New applies.
var Configurations = []Configuration{
	ConfigureUsuario,
}

// ConfigureUsuario maps Usuario onto Usuarios(Id, Nome, Email).
func ConfigureUsuario(s *Schema) error {
	return s.Register(Table{
		Name:       UsuariosTable,
		PrimaryKey: "Id",
		Columns: []Column{
			{Name: "Nome", Field: "nome", Required: true, MaxLength: 100},
			{Name: "Email", Field: "email", Required: true, MaxLength: 200},
		},
	})
}
