package scene

// Entity places a registry mesh with a registry material. Only the
// transform belongs to the entity.
type Entity struct {
	Name      string
	Transform Transform
	Mesh      MeshHandle
	Material  MaterialHandle
}
