package geom

import "math"

// Camera2D UI 平面摄像机
// Fov 为屏幕高度对应的世界单位数，中心固定在原点
type Camera2D struct {
	Fov float64
}

// ScreenToWorld 把屏幕像素坐标转换为 UI 平面坐标
//
// 参数：
//   - screen: 屏幕尺寸（像素）
//   - pixel: 像素坐标（左上角为原点，y 向下）
func (c Camera2D) ScreenToWorld(screen, pixel Vec2) Vec2 {
	k := c.Fov / screen.Y
	return Vec2{
		X: (pixel.X - screen.X/2) * k,
		Y: (screen.Y/2 - pixel.Y) * k,
	}
}

// WorldToScreen 是 ScreenToWorld 的逆变换
func (c Camera2D) WorldToScreen(screen, world Vec2) Vec2 {
	k := screen.Y / c.Fov
	return Vec2{
		X: world.X*k + screen.X/2,
		Y: screen.Y/2 - world.Y*k,
	}
}

// Ray 三维射线，Dir 为单位向量，沿射线参数 t 即为距离
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At 返回射线上距离 Origin 为 t 的点
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Camera3D 骑行摄像机
//
// 视图变换：view = Rx(Rot) · T(0, -Height, 0) · Rx(Latitude)，
// 即摄像机固定在地球上方 Height 处，随纬度绕 x 轴转动，并向下俯视 Rot 弧度。
// 投影为垂直视角 Fov 的透视投影。
type Camera3D struct {
	Fov      float64
	Rot      float64
	Height   float64
	Latitude float64
	Near     float64
}

// Position 摄像机在世界坐标中的位置
func (c Camera3D) Position() Vec3 {
	return V3(0, c.Height, 0).RotateX(-c.Latitude)
}

// Dir 摄像机朝向（单位向量）
func (c Camera3D) Dir() Vec3 {
	return V3(0, 0, -1).RotateX(-(c.Latitude + c.Rot))
}

// PixelRay 从摄像机出发、穿过屏幕像素的射线
// 射线起点位于近裁剪面上
func (c Camera3D) PixelRay(screen, pixel Vec2) Ray {
	ndcX := pixel.X/screen.X*2 - 1
	ndcY := 1 - pixel.Y/screen.Y*2
	tanHalf := math.Tan(c.Fov / 2)
	aspect := screen.X / screen.Y

	camDir := V3(ndcX*tanHalf*aspect, ndcY*tanHalf, -1)
	worldDir := camDir.RotateX(-(c.Latitude + c.Rot))
	return Ray{
		Origin: c.Position().Add(worldDir.Scale(c.Near)),
		Dir:    worldDir.Normalize(),
	}
}

// Project 把世界坐标投影到屏幕像素
// 点位于近裁剪面之后时返回 false
func (c Camera3D) Project(screen Vec2, p Vec3) (Vec2, bool) {
	pc := p.RotateX(c.Latitude).Sub(V3(0, c.Height, 0)).RotateX(c.Rot)
	depth := -pc.Z
	if depth <= c.Near {
		return Vec2{}, false
	}
	tanHalf := math.Tan(c.Fov / 2)
	aspect := screen.X / screen.Y
	ndcX := pc.X / (depth * tanHalf * aspect)
	ndcY := pc.Y / (depth * tanHalf)
	return Vec2{
		X: (ndcX + 1) / 2 * screen.X,
		Y: (1 - ndcY) / 2 * screen.Y,
	}, true
}

// Depth 返回世界坐标点沿视线方向的深度，用于绘制排序
func (c Camera3D) Depth(p Vec3) float64 {
	return p.Sub(c.Position()).Dot(c.Dir())
}
